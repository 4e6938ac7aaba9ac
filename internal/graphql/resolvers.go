package graphql

import (
	"context"

	"address-validator/internal/models"
	getlogs "address-validator/internal/resolvers/activity/get-logs"
	logactivity "address-validator/internal/resolvers/activity/log-activity"
	validateaddress "address-validator/internal/resolvers/address/validate-address"
	searchlocations "address-validator/internal/resolvers/locality/search-locations"
	createsession "address-validator/internal/resolvers/session/create-session"
	sessionstate "address-validator/internal/resolvers/session/session-state"
)

type AddressValidator interface {
	Execute(ctx context.Context, input *validateaddress.Input) *models.ValidationResult
}

type LocationSearcher interface {
	Execute(ctx context.Context, input *searchlocations.Input) *searchlocations.Output
}

type ActivityLogger interface {
	Execute(ctx context.Context, input *logactivity.Input) *models.LogResult
}

type LogReader interface {
	Execute(ctx context.Context, input *getlogs.Input) *getlogs.Output
}

type SessionCreator interface {
	Execute(ctx context.Context) (*createsession.Output, error)
}

type SessionStore interface {
	Get(ctx context.Context, input *sessionstate.GetInput) (*sessionstate.GetOutput, error)
	Save(ctx context.Context, input *sessionstate.SaveInput) (*sessionstate.SaveOutput, error)
}

// AppConfig is the browser-facing configuration.
type AppConfig struct {
	GoogleMapsAPIKey string
	AnalyticsEnabled bool
	BaseURL          string
}

// Dependencies are the resolvers behind the schema. Sessions and
// SessionCreator may be nil, in which case the session fields are omitted.
type Dependencies struct {
	Validator      AddressValidator
	Searcher       LocationSearcher
	ActivityLogger ActivityLogger
	LogReader      LogReader
	SessionCreator SessionCreator
	Sessions       SessionStore
	AppConfig      AppConfig
}

func (d Dependencies) sessionsEnabled() bool {
	return d.Sessions != nil && d.SessionCreator != nil
}

func localityToMap(l models.Locality) map[string]interface{} {
	m := map[string]interface{}{
		"location":  l.Location,
		"postcode":  l.Postcode,
		"state":     l.State,
		"category":  l.Category,
		"latitude":  nil,
		"longitude": nil,
		"id":        nil,
	}
	if l.Latitude != nil {
		m["latitude"] = *l.Latitude
	}
	if l.Longitude != nil {
		m["longitude"] = *l.Longitude
	}
	if l.ID != nil {
		m["id"] = int(*l.ID)
	}
	return m
}

func logEntryToMap(e models.LogEntry) map[string]interface{} {
	return map[string]interface{}{
		"id":        e.ID,
		"type":      e.Type,
		"input":     e.Input,
		"output":    e.Output,
		"success":   e.Success,
		"timestamp": e.Timestamp,
		"sessionId": optionalString(e.SessionID),
		"userId":    optionalString(e.UserID),
	}
}

func optionalString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func intArg(args map[string]interface{}, name string) int {
	n, _ := args[name].(int)
	return n
}

// limitArg maps an explicit null to a negative limit, which selects the
// reader's default page size.
func limitArg(args map[string]interface{}) int {
	n, ok := args["limit"].(int)
	if !ok {
		return -1
	}
	return n
}

func stringListArg(args map[string]interface{}, name string) []string {
	raw, ok := args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
