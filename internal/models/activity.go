package models

type ActivityType string

const (
	ActivityVerify ActivityType = "VERIFY"
	ActivitySearch ActivityType = "SEARCH"
)

func (t ActivityType) Valid() bool {
	return t == ActivityVerify || t == ActivitySearch
}

// LogInput is a caller-supplied activity record. Input and Output are JSON strings.
type LogInput struct {
	Type      string `json:"type"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// LogEntry is the document stored in the activity index.
type LogEntry struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

type LogResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}
