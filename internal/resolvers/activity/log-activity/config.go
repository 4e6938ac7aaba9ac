// internal/resolvers/activity/log-activity/config.go
package logactivity

// InputSchema constrains caller-supplied log entries.
const InputSchema = `{
	"type": "object",
	"required": ["type", "input", "output", "success"],
	"properties": {
		"type":      {"type": "string", "enum": ["VERIFY", "SEARCH"]},
		"input":     {"type": "string"},
		"output":    {"type": "string"},
		"success":   {"type": "boolean"},
		"sessionId": {"type": "string"},
		"userId":    {"type": "string"}
	}
}`

type Config struct {
	Schema string
}

func LoadConfig() *Config {
	return &Config{
		Schema: InputSchema,
	}
}
