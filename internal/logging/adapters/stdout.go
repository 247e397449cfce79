package adapters

import (
	"fmt"
	"io"
	"os"
	"sync"

	"careerhub-utils/internal/logging/types"
)

// StdoutAdapter writes formatted entries to stdout (or any writer)
type StdoutAdapter struct {
	name      string
	format    string
	colorized bool
	out       io.Writer
	mu        sync.Mutex
}

// StdoutConfig configures the stdout adapter
type StdoutConfig struct {
	Format    string    `yaml:"format"` // json or text
	Colorized bool      `yaml:"colorized"`
	Writer    io.Writer `yaml:"-"`
}

// NewStdoutAdapter creates a stdout adapter
func NewStdoutAdapter(name string, config StdoutConfig) *StdoutAdapter {
	out := config.Writer
	if out == nil {
		out = os.Stdout
	}
	return &StdoutAdapter{
		name:      name,
		format:    config.Format,
		colorized: config.Colorized,
		out:       out,
	}
}

func (a *StdoutAdapter) Write(entry *types.LogEntry) error {
	line, err := formatEntry(a.format, entry, a.colorized)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = fmt.Fprintln(a.out, line)
	return err
}

func (a *StdoutAdapter) Close() error  { return nil }
func (a *StdoutAdapter) Health() error { return nil }
func (a *StdoutAdapter) Name() string  { return a.name }
