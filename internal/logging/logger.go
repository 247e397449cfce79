package logging

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"careerhub-utils/internal/logging/types"
)

// sink is shared by a logger and every logger derived from it, so adapters
// and the level are configured once.
type sink struct {
	mu       sync.RWMutex
	adapters map[string]types.LogAdapter
	level    LogLevel
}

// MultiLogger fans each entry out to all registered adapters
type MultiLogger struct {
	sink   *sink
	ctx    context.Context
	fields map[string]interface{}
}

// NewMultiLogger creates a logger with no adapters at info level
func NewMultiLogger() *MultiLogger {
	return &MultiLogger{
		sink: &sink{
			adapters: make(map[string]types.LogAdapter),
			level:    InfoLevel,
		},
		ctx:    context.Background(),
		fields: map[string]interface{}{},
	}
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DebugLevel, message, fields)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.log(InfoLevel, message, fields)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WarnLevel, message, fields)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.log(ErrorLevel, message, fields)
}

// Fatal logs, flushes adapters and exits the process
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.log(FatalLevel, message, fields)
	l.Close()
	os.Exit(1)
}

func (l *MultiLogger) log(level LogLevel, message string, extra []map[string]interface{}) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	if level < l.sink.level {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Context:   l.ctx,
		Fields:    l.merged(extra...),
	}

	for name, adapter := range l.sink.adapters {
		if err := adapter.Write(entry); err != nil {
			// stderr, never back through the logger
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", name, err)
		}
	}
}

func (l *MultiLogger) derive(ctx context.Context, fields map[string]interface{}) *MultiLogger {
	return &MultiLogger{sink: l.sink, ctx: ctx, fields: fields}
}

func (l *MultiLogger) WithContext(ctx context.Context) Logger {
	return l.derive(ctx, l.merged())
}

func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	return l.derive(l.ctx, l.merged(map[string]interface{}{key: value}))
}

func (l *MultiLogger) WithFields(fields map[string]interface{}) Logger {
	return l.derive(l.ctx, l.merged(fields))
}

// WithError attaches err under the "error" key
func (l *MultiLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *MultiLogger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

func (l *MultiLogger) GetLevel() LogLevel {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	return l.sink.level
}

// AddAdapter registers an adapter; names must be unique
func (l *MultiLogger) AddAdapter(adapter types.LogAdapter) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	name := adapter.Name()
	if _, exists := l.sink.adapters[name]; exists {
		return fmt.Errorf("adapter %s already exists", name)
	}
	l.sink.adapters[name] = adapter
	return nil
}

// AdapterNames lists registered adapters in name order
func (l *MultiLogger) AdapterNames() []string {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	names := make([]string, 0, len(l.sink.adapters))
	for name := range l.sink.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Health reports the first unhealthy adapter, if any
func (l *MultiLogger) Health() error {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	for name, adapter := range l.sink.adapters {
		if err := adapter.Health(); err != nil {
			return fmt.Errorf("adapter %s: %w", name, err)
		}
	}
	return nil
}

// Close closes every adapter and reports all failures together
func (l *MultiLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	var failed []string
	for name, adapter := range l.sink.adapters {
		if err := adapter.Close(); err != nil {
			failed = append(failed, fmt.Sprintf("adapter %s: %v", name, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to close adapters: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (l *MultiLogger) merged(extra ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	for _, m := range extra {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
