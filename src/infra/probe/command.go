package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command runs an external program, such as playerctl or osascript, and uses its
// trimmed output as the track label.
type Command struct {
	argv []string
}

// NewCommand creates a probe running argv[0] with the remaining arguments.
func NewCommand(argv []string) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("probe command is empty")
	}
	return &Command{argv: append([]string(nil), argv...)}, nil
}

func (c *Command) Name() string { return "command:" + c.argv[0] }

func (c *Command) CurrentTrackLabel(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", c.argv[0], err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
