package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "faqbot",
		Short:        "Answer questions from a plain-text FAQ",
		Long:         "faqbot matches what you type or say against a Q:/A: FAQ file (or free text) and replies with the closest answer.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ./config.yaml or ~/.config/faqbot/config.yaml)")

	root.AddCommand(chatCmd())
	root.AddCommand(askCmd())
	root.AddCommand(parseCmd())
	root.AddCommand(configCmd())
	root.AddCommand(transcriptCmd())
	return root
}
