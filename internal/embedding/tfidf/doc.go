// Package tfidf implements a small term-frequency/inverse-document-frequency
// vectorizer. It learns a vocabulary from a list of items once and then maps
// any text into that fixed space, so query vectors and item vectors are
// directly comparable with a dot product.
package tfidf
