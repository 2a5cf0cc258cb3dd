package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Recorder captures one chunk of audio of at most maxDuration.
type Recorder interface {
	Record(ctx context.Context, maxDuration time.Duration) ([]byte, error)
}

// CommandRecorder records by running an external program that writes audio
// to stdout, e.g. `arecord -q -f S16_LE -r 16000 -c 1 -t wav -d {seconds}`.
// The placeholder {seconds} in Args is replaced by the chunk length.
type CommandRecorder struct {
	Command string
	Args    []string
}

// NewCommandRecorder returns a recorder for command and args.
func NewCommandRecorder(command string, args []string) *CommandRecorder {
	return &CommandRecorder{Command: command, Args: args}
}

// Record runs the command and returns its stdout.
func (r *CommandRecorder) Record(ctx context.Context, maxDuration time.Duration) ([]byte, error) {
	if strings.TrimSpace(r.Command) == "" {
		return nil, newError(KindDevice, "record", errors.New("no recorder command configured"))
	}
	secs := int(maxDuration.Round(time.Second) / time.Second)
	if secs <= 0 {
		secs = 1
	}
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = strings.ReplaceAll(a, "{seconds}", strconv.Itoa(secs))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, newError(KindTimeout, "record", ctx.Err())
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, exec.ErrNotFound):
			return nil, newError(KindDevice, "record", err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, newError(KindDevice, "record", err)
	}
	if stdout.Len() == 0 {
		return nil, newError(KindTimeout, "record", errors.New("recorder produced no audio"))
	}
	return stdout.Bytes(), nil
}
