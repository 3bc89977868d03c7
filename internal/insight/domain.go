package insight

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Unknown is the label substituted for missing categorical values.
const Unknown = "Unknown"

// Insight is a single analytical record describing a forecasted event or trend.
type Insight struct {
	Intensity  Score  `json:"intensity"`
	Likelihood Score  `json:"likelihood"`
	Relevance  Score  `json:"relevance"`
	Impact     Score  `json:"impact"`
	Sector     string `json:"sector,omitempty"`
	Pestle     string `json:"pestle,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
	Source     string `json:"source,omitempty"`
	EndYear    Text   `json:"end_year,omitempty"`
	StartYear  Text   `json:"start_year,omitempty"`
	Published  string `json:"published,omitempty"`
	Added      string `json:"added,omitempty"`
	Title      string `json:"title"`
	Summary    string `json:"insight,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Field returns the raw string value of a filterable field. Unknown field
// names yield an empty string.
func (i Insight) Field(name string) string {
	switch name {
	case FieldEndYear:
		return string(i.EndYear)
	case FieldStartYear:
		return string(i.StartYear)
	case FieldTopic:
		return i.Topic
	case FieldSector:
		return i.Sector
	case FieldRegion:
		return i.Region
	case FieldPestle:
		return i.Pestle
	case FieldSource:
		return i.Source
	case FieldCountry:
		return i.Country
	case FieldCity:
		return i.City
	default:
		return ""
	}
}

// Score is an optional numeric attribute. Upstream payloads carry numbers,
// numeric strings, empty strings or null for the same field.
type Score struct {
	Value float64
	Valid bool
}

// NewScore returns a valid Score.
func NewScore(v float64) Score {
	return Score{Value: v, Valid: true}
}

// UnmarshalJSON accepts numbers, numeric strings, "" and null.
func (s *Score) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*s = Score{}
		return nil
	}
	text := string(raw)
	if raw[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return fmt.Errorf("insight: score: %w", err)
		}
		text = strings.TrimSpace(unquoted)
		if text == "" {
			*s = Score{}
			return nil
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		// Non-numeric scores are treated as missing rather than failing the payload.
		*s = Score{}
		return nil
	}
	*s = Score{Value: v, Valid: true}
	return nil
}

// MarshalJSON writes the number or null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(s.Value, 'f', -1, 64)), nil
}

// Label renders the score the way chart axes show it.
func (s Score) Label() string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// Text is a string attribute that upstream sometimes encodes as a number
// (years in particular).
type Text string

// UnmarshalJSON accepts strings, numbers and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*t = ""
		return nil
	}
	if raw[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return fmt.Errorf("insight: text: %w", err)
		}
		*t = Text(strings.TrimSpace(unquoted))
		return nil
	}
	*t = Text(raw)
	return nil
}

// String implements fmt.Stringer.
func (t Text) String() string {
	return string(t)
}
