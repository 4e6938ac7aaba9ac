// internal/resolvers/session/create-session/models.go
package createsession

type Output struct {
	SessionID string `json:"sessionId"`
	CreatedAt string `json:"createdAt"`
}
