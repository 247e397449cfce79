package logging

import (
	"fmt"
	"sync"

	"careerhub-utils/internal/config"
	"careerhub-utils/internal/logging/adapters"
)

// Manager owns the process logger and builds it from configuration
type Manager struct {
	factory *AdapterFactory
	logger  *MultiLogger
}

// NewManager creates a manager with an empty logger
func NewManager() *Manager {
	return &Manager{
		factory: NewAdapterFactory(),
		logger:  NewMultiLogger(),
	}
}

// Initialize applies the level and creates every enabled adapter.
// With no adapters configured a single stdout adapter is used.
func (m *Manager) Initialize(cfg *config.Config) error {
	m.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	enabled := 0
	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}
		adapter, err := m.factory.CreateAdapter(ac)
		if err != nil {
			return fmt.Errorf("failed to create adapter %s: %w", ac.Name, err)
		}
		if err := m.logger.AddAdapter(adapter); err != nil {
			return fmt.Errorf("failed to add adapter %s: %w", ac.Name, err)
		}
		enabled++
	}

	if enabled == 0 {
		return m.logger.AddAdapter(adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{
			Format: cfg.Logging.Format,
		}))
	}
	return nil
}

// GetLogger returns the managed logger
func (m *Manager) GetLogger() Logger {
	return m.logger
}

// Close closes all adapters
func (m *Manager) Close() error {
	return m.logger.Close()
}

var (
	globalMu      sync.Mutex
	globalManager *Manager
)

// InitializeLogging builds the global logger from cfg
func InitializeLogging(cfg *config.Config) error {
	m := NewManager()
	if err := m.Initialize(cfg); err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = m
	return nil
}

// GetGlobalLogger returns the global logger, falling back to json on stdout
// when InitializeLogging has not run.
func GetGlobalLogger() Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		m := NewManager()
		m.logger.AddAdapter(adapters.NewStdoutAdapter("fallback_stdout", adapters.StdoutConfig{Format: "json"}))
		globalManager = m
	}
	return globalManager.GetLogger()
}

// CloseLogging closes the global logger
func CloseLogging() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager != nil {
		return globalManager.Close()
	}
	return nil
}

// LogWithRequestID returns the global logger tagged with a request id
func LogWithRequestID(requestID string) Logger {
	return GetGlobalLogger().WithField("request_id", requestID)
}

// Discard returns a logger with no adapters
func Discard() Logger {
	return NewMultiLogger()
}
