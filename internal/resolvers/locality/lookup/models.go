// internal/resolvers/locality/lookup/models.go
package lookup

import (
	"bytes"
	"encoding/json"
	"strconv"

	"address-validator/internal/models"
)

type Input struct {
	Query string `json:"query"`
	State string `json:"state,omitempty"`
}

type Output struct {
	Localities []models.Locality `json:"localities"`
}

type upstreamResponse struct {
	Localities json.RawMessage `json:"localities"`
}

type upstreamLocalities struct {
	Locality json.RawMessage `json:"locality"`
}

type upstreamError struct {
	Error json.RawMessage `json:"error"`
}

// upstreamLocality mirrors one record as sent. Numeric fields arrive as
// either JSON numbers or strings depending on the record.
type upstreamLocality struct {
	Location  flexString `json:"location"`
	Postcode  flexString `json:"postcode"`
	State     flexString `json:"state"`
	Category  flexString `json:"category"`
	Latitude  flexFloat  `json:"latitude"`
	Longitude flexFloat  `json:"longitude"`
	ID        flexInt    `json:"id"`
}

func (u upstreamLocality) toModel() models.Locality {
	category := string(u.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	return models.Locality{
		Location:  string(u.Location),
		Postcode:  string(u.Postcode),
		State:     string(u.State),
		Category:  category,
		Latitude:  u.Latitude.v,
		Longitude: u.Longitude.v,
		ID:        u.ID.v,
	}
}

// flexString accepts a string or a number. Numbers keep their literal text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}

type flexFloat struct {
	v *float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s, ok := scalarText(b)
	if !ok {
		f.v = nil
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.v = nil
		return nil
	}
	f.v = &n
	return nil
}

type flexInt struct {
	v *int64
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s, ok := scalarText(b)
	if !ok {
		f.v = nil
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		f.v = &n
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		n := int64(fl)
		f.v = &n
		return nil
	}
	f.v = nil
	return nil
}

// scalarText returns the text of a JSON number or string, false for null,
// empty strings, and non-scalars.
func scalarText(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	}
	if b[0] == '{' || b[0] == '[' {
		return "", false
	}
	return string(b), true
}
