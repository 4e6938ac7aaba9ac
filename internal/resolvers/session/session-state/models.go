// internal/resolvers/session/session-state/models.go
package sessionstate

type GetInput struct {
	SessionID string `json:"sessionId"`
	Key       string `json:"key"`
}

type GetOutput struct {
	Value string `json:"value"`
	// Stored is false when Value is the key's default.
	Stored bool `json:"stored"`
}

type SaveInput struct {
	SessionID string `json:"sessionId"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

type SaveOutput struct {
	Saved bool `json:"saved"`
}
