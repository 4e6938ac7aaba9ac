// internal/resolvers/activity/get-logs/models.go
package getlogs

import "address-validator/internal/models"

// Input pages through the log. A negative Limit selects the default page
// size; zero is passed through as size 0.
type Input struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Type   string `json:"type,omitempty"`
}

type Output struct {
	Logs []models.LogEntry `json:"logs"`
}

type searchBody struct {
	Query map[string]interface{}   `json:"query"`
	Sort  []map[string]interface{} `json:"sort"`
	From  int                      `json:"from"`
	Size  int                      `json:"size"`
}

type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	ID     string    `json:"_id"`
	Source sourceDoc `json:"_source"`
}

type sourceDoc struct {
	models.LogEntry
	AtTimestamp string `json:"@timestamp"`
}
