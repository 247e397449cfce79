package adapters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"careerhub-utils/internal/logging/types"
)

// formatEntry renders an entry as a single line in the given format.
// Unknown formats fall back to json.
func formatEntry(format string, entry *types.LogEntry, colorize bool) (string, error) {
	if strings.EqualFold(format, "text") {
		return formatText(entry, colorize), nil
	}
	return formatJSON(entry)
}

func formatJSON(entry *types.LogEntry) (string, error) {
	record := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		record[k] = v
	}
	record["level"] = entry.Level.String()
	record["message"] = entry.Message
	record["time"] = entry.Timestamp.Format(time.RFC3339)

	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatText(entry *types.LogEntry, colorize bool) string {
	level := strings.ToUpper(entry.Level.String())
	if colorize {
		level = colorizeLevel(level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"), level, entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String()
}

func colorizeLevel(level string) string {
	const reset = "\033[0m"
	switch level {
	case "DEBUG":
		return "\033[90m" + level + reset
	case "INFO":
		return "\033[34m" + level + reset
	case "WARN":
		return "\033[33m" + level + reset
	case "ERROR", "FATAL":
		return "\033[31m" + level + reset
	}
	return level
}
