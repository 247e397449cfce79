package logging

import (
	"fmt"

	"careerhub-utils/internal/logging/adapters"
	"careerhub-utils/internal/logging/types"
)

// AdapterFactory builds adapters from configuration
type AdapterFactory struct{}

// NewAdapterFactory creates a new adapter factory
func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{}
}

// CreateAdapter creates an adapter for the configured type
func (f *AdapterFactory) CreateAdapter(cfg types.AdapterConfig) (types.LogAdapter, error) {
	switch cfg.Type {
	case "stdout":
		return adapters.NewStdoutAdapter(cfg.Name, adapters.StdoutConfig{
			Format:    getStringOption(cfg.Options, "format", "json"),
			Colorized: getBoolOption(cfg.Options, "colorized", false),
		}), nil
	case "file":
		return adapters.NewFileAdapter(cfg.Name, adapters.FileConfig{
			FilePath:    getStringOption(cfg.Options, "file_path", ""),
			Format:      getStringOption(cfg.Options, "format", "json"),
			MaxSize:     int64(getIntOption(cfg.Options, "max_size", 0)),
			MaxBackups:  getIntOption(cfg.Options, "max_backups", 5),
			Compress:    getBoolOption(cfg.Options, "compress", false),
			CreateDirs:  getBoolOption(cfg.Options, "create_dirs", true),
			SyncOnWrite: getBoolOption(cfg.Options, "sync_on_write", false),
		})
	case "memory":
		return adapters.NewMemoryAdapter(cfg.Name), nil
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", cfg.Type)
	}
}

func getStringOption(options map[string]interface{}, key, def string) string {
	if s, ok := options[key].(string); ok {
		return s
	}
	return def
}

// yaml decodes integers as int, json as float64
func getIntOption(options map[string]interface{}, key string, def int) int {
	switch v := options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

func getBoolOption(options map[string]interface{}, key string, def bool) bool {
	if b, ok := options[key].(bool); ok {
		return b
	}
	return def
}
