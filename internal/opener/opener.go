// Package opener hands a file to the operating system's default
// application for it (the calendar app for .ics files).
package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	appLog "icalgen/internal/log"
)

// executor abstracts process spawning for testing.
type executor interface {
	Start(name string, args ...string) error
}

// osExecutor starts the process and releases it without waiting.
type osExecutor struct{}

func (osExecutor) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Opener launches the platform "open" command for a path.
type Opener struct {
	name string
	args []string
	exec executor
}

// New returns an Opener for the current platform. A non-empty command
// replaces the platform default; it is split on whitespace and the path is
// appended as the last argument.
func New(command string) (*Opener, error) {
	return newOpener(command, runtime.GOOS, osExecutor{})
}

func newOpener(command, goos string, exec executor) (*Opener, error) {
	var argv []string
	if strings.TrimSpace(command) != "" {
		argv = strings.Fields(command)
	} else {
		argv = platformCommand(goos)
	}
	if len(argv) == 0 {
		return nil, errors.New("opener: empty open command")
	}
	return &Opener{name: argv[0], args: argv[1:], exec: exec}, nil
}

func platformCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// Command returns the program and arguments Open would run for path.
func (o *Opener) Command(path string) []string {
	argv := make([]string, 0, len(o.args)+2)
	argv = append(argv, o.name)
	argv = append(argv, o.args...)
	return append(argv, path)
}

// Open starts the open command for path and returns once the process has
// been spawned. Its exit status is never observed.
func (o *Opener) Open(path string) error {
	if path == "" {
		return errors.New("opener: empty path")
	}
	argv := o.Command(path)
	if err := o.exec.Start(argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("opener: start %s: %w", o.name, err)
	}
	appLog.Debug("open command started", "cmd", strings.Join(argv, " "))
	return nil
}
