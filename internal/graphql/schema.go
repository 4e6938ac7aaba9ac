// Package graphql builds the public GraphQL schema over the resolvers.
package graphql

import (
	"errors"

	gql "github.com/graphql-go/graphql"

	apperrors "address-validator/internal/common/errors"
	"address-validator/internal/models"
	getlogs "address-validator/internal/resolvers/activity/get-logs"
	logactivity "address-validator/internal/resolvers/activity/log-activity"
	validateaddress "address-validator/internal/resolvers/address/validate-address"
	searchlocations "address-validator/internal/resolvers/locality/search-locations"
	sessionstate "address-validator/internal/resolvers/session/session-state"
)

var locationType = gql.NewObject(gql.ObjectConfig{
	Name: "Location",
	Fields: gql.Fields{
		"location":  &gql.Field{Type: gql.NewNonNull(gql.String)},
		"postcode":  &gql.Field{Type: gql.NewNonNull(gql.String)},
		"state":     &gql.Field{Type: gql.NewNonNull(gql.String)},
		"category":  &gql.Field{Type: gql.String},
		"latitude":  &gql.Field{Type: gql.Float},
		"longitude": &gql.Field{Type: gql.Float},
		"id":        &gql.Field{Type: gql.Int},
	},
})

var logEntryType = gql.NewObject(gql.ObjectConfig{
	Name: "LogEntry",
	Fields: gql.Fields{
		"id":        &gql.Field{Type: gql.NewNonNull(gql.String)},
		"type":      &gql.Field{Type: gql.NewNonNull(gql.String)},
		"input":     &gql.Field{Type: gql.NewNonNull(gql.String)},
		"output":    &gql.Field{Type: gql.NewNonNull(gql.String)},
		"success":   &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
		"timestamp": &gql.Field{Type: gql.NewNonNull(gql.String)},
		"sessionId": &gql.Field{Type: gql.String},
		"userId":    &gql.Field{Type: gql.String},
	},
})

var logResultType = gql.NewObject(gql.ObjectConfig{
	Name: "LogResult",
	Fields: gql.Fields{
		"id":      &gql.Field{Type: gql.NewNonNull(gql.String)},
		"success": &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
	},
})

var logInputType = gql.NewInputObject(gql.InputObjectConfig{
	Name: "LogInput",
	Fields: gql.InputObjectConfigFieldMap{
		"type":      &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"input":     &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"output":    &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"success":   &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.Boolean)},
		"sessionId": &gql.InputObjectFieldConfig{Type: gql.String},
		"userId":    &gql.InputObjectFieldConfig{Type: gql.String},
	},
})

var outcomeType = gql.NewEnum(gql.EnumConfig{
	Name: "ValidationOutcome",
	Values: gql.EnumValueConfigMap{
		string(models.OutcomeValid):            &gql.EnumValueConfig{Value: string(models.OutcomeValid)},
		string(models.OutcomeSuburbNotFound):   &gql.EnumValueConfig{Value: string(models.OutcomeSuburbNotFound)},
		string(models.OutcomePostcodeMismatch): &gql.EnumValueConfig{Value: string(models.OutcomePostcodeMismatch)},
		string(models.OutcomeUpstreamError):    &gql.EnumValueConfig{Value: string(models.OutcomeUpstreamError)},
		string(models.OutcomeError):            &gql.EnumValueConfig{Value: string(models.OutcomeError)},
	},
})

var validationResultType = gql.NewObject(gql.ObjectConfig{
	Name: "ValidationResult",
	Fields: gql.Fields{
		"outcome": &gql.Field{Type: gql.NewNonNull(outcomeType)},
		"message": &gql.Field{Type: gql.NewNonNull(gql.String)},
	},
})

var appConfigType = gql.NewObject(gql.ObjectConfig{
	Name: "AppConfig",
	Fields: gql.Fields{
		"googleMapsApiKey": &gql.Field{Type: gql.String},
		"analyticsEnabled": &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
		"baseUrl":          &gql.Field{Type: gql.String},
	},
})

var addressArgs = gql.FieldConfigArgument{
	"postcode": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
	"suburb":   &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
	"state":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
}

// NewSchema builds the schema. Session fields are present only when both
// session dependencies are set.
func NewSchema(deps Dependencies) (gql.Schema, error) {
	if deps.Validator == nil || deps.Searcher == nil || deps.ActivityLogger == nil || deps.LogReader == nil {
		return gql.Schema{}, errors.New("graphql: validator, searcher, activity logger and log reader are required")
	}

	query := gql.Fields{
		"searchLocations": &gql.Field{
			Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(locationType))),
			Args: gql.FieldConfigArgument{
				"query":      &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				"categories": &gql.ArgumentConfig{Type: gql.NewList(gql.NewNonNull(gql.String))},
			},
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				out := deps.Searcher.Execute(p.Context, &searchlocations.Input{
					Query:      stringArg(p.Args, "query"),
					Categories: stringListArg(p.Args, "categories"),
				})
				result := make([]interface{}, 0, len(out.Locations))
				for _, l := range out.Locations {
					result = append(result, localityToMap(l))
				}
				return result, nil
			},
		},
		"getLogs": &gql.Field{
			Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(logEntryType))),
			Args: gql.FieldConfigArgument{
				"limit":  &gql.ArgumentConfig{Type: gql.Int, DefaultValue: getlogs.DefaultLimit},
				"offset": &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 0},
				"type":   &gql.ArgumentConfig{Type: gql.String},
			},
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				out := deps.LogReader.Execute(p.Context, &getlogs.Input{
					Limit:  limitArg(p.Args),
					Offset: intArg(p.Args, "offset"),
					Type:   stringArg(p.Args, "type"),
				})
				result := make([]interface{}, 0, len(out.Logs))
				for _, e := range out.Logs {
					result = append(result, logEntryToMap(e))
				}
				return result, nil
			},
		},
		"appConfig": &gql.Field{
			Type: gql.NewNonNull(appConfigType),
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return map[string]interface{}{
					"googleMapsApiKey": optionalString(deps.AppConfig.GoogleMapsAPIKey),
					"analyticsEnabled": deps.AppConfig.AnalyticsEnabled,
					"baseUrl":          optionalString(deps.AppConfig.BaseURL),
				}, nil
			},
		},
	}

	mutation := gql.Fields{
		"validateAddress": &gql.Field{
			Type: gql.NewNonNull(gql.String),
			Args: addressArgs,
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return deps.Validator.Execute(p.Context, addressInput(p.Args)).Message, nil
			},
		},
		"validateAddressDetailed": &gql.Field{
			Type: gql.NewNonNull(validationResultType),
			Args: addressArgs,
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				r := deps.Validator.Execute(p.Context, addressInput(p.Args))
				return map[string]interface{}{
					"outcome": string(r.Outcome),
					"message": r.Message,
				}, nil
			},
		},
		"logActivity": &gql.Field{
			Type: gql.NewNonNull(logResultType),
			Args: gql.FieldConfigArgument{
				"input": &gql.ArgumentConfig{Type: gql.NewNonNull(logInputType)},
			},
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				raw, _ := p.Args["input"].(map[string]interface{})
				success, _ := raw["success"].(bool)
				out := deps.ActivityLogger.Execute(p.Context, &logactivity.Input{
					Type:      stringArg(raw, "type"),
					Input:     stringArg(raw, "input"),
					Output:    stringArg(raw, "output"),
					Success:   success,
					SessionID: stringArg(raw, "sessionId"),
					UserID:    stringArg(raw, "userId"),
				})
				return map[string]interface{}{"id": out.ID, "success": out.Success}, nil
			},
		},
	}

	if deps.sessionsEnabled() {
		addSessionFields(query, mutation, deps)
	}

	return gql.NewSchema(gql.SchemaConfig{
		Query:    gql.NewObject(gql.ObjectConfig{Name: "Query", Fields: query}),
		Mutation: gql.NewObject(gql.ObjectConfig{Name: "Mutation", Fields: mutation}),
	})
}

func addSessionFields(query, mutation gql.Fields, deps Dependencies) {
	query["sessionState"] = &gql.Field{
		Type: gql.NewNonNull(gql.String),
		Args: gql.FieldConfigArgument{
			"sessionId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
			"key":       &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
		},
		Resolve: func(p gql.ResolveParams) (interface{}, error) {
			out, err := deps.Sessions.Get(p.Context, &sessionstate.GetInput{
				SessionID: stringArg(p.Args, "sessionId"),
				Key:       stringArg(p.Args, "key"),
			})
			if err != nil {
				return nil, publicError(err)
			}
			return out.Value, nil
		},
	}

	mutation["createSession"] = &gql.Field{
		Type: gql.NewNonNull(gql.String),
		Resolve: func(p gql.ResolveParams) (interface{}, error) {
			out, err := deps.SessionCreator.Execute(p.Context)
			if err != nil {
				return nil, publicError(err)
			}
			return out.SessionID, nil
		},
	}

	mutation["saveSessionState"] = &gql.Field{
		Type: gql.NewNonNull(gql.Boolean),
		Args: gql.FieldConfigArgument{
			"sessionId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
			"key":       &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
			"value":     &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
		},
		Resolve: func(p gql.ResolveParams) (interface{}, error) {
			out, err := deps.Sessions.Save(p.Context, &sessionstate.SaveInput{
				SessionID: stringArg(p.Args, "sessionId"),
				Key:       stringArg(p.Args, "key"),
				Value:     stringArg(p.Args, "value"),
			})
			if err != nil {
				return nil, publicError(err)
			}
			return out.Saved, nil
		},
	}
}

func addressInput(args map[string]interface{}) *validateaddress.Input {
	return &validateaddress.Input{
		Postcode: stringArg(args, "postcode"),
		Suburb:   stringArg(args, "suburb"),
		State:    stringArg(args, "state"),
	}
}

// publicError strips the sentinel prefix and keeps the coded message.
func publicError(err error) error {
	if se, ok := apperrors.As(err); ok {
		return errors.New(se.Error())
	}
	return err
}
