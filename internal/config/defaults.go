package config

// Default configuration values.
const (
	DefaultBackendURL   = "http://localhost:8000"
	DefaultSchemaURL    = "http://localhost:8000/schema/data_schema.json"
	DefaultUIPort       = 8765
	DefaultHistoryLimit = 10
	DefaultOutput       = "table"
)

// defaultMap is the lowest-priority configuration layer.
func defaultMap() map[string]interface{} {
	return map[string]interface{}{
		"backend_url":      DefaultBackendURL,
		"schema_url":       DefaultSchemaURL,
		"schema_file":      "",
		"request_timeout":  "0s",
		"history_limit":    DefaultHistoryLimit,
		"verbose":          false,
		"output":           DefaultOutput,
		"session_secret":   "asklens-dev-secret",
		"ui.port":          DefaultUIPort,
		"ui.watch":         true,
		"ui.auto_open":     true,
		"location.enabled": false,
	}
}
