package meals

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidDate is returned for dates that do not parse to a point in time
var ErrInvalidDate = errors.New("date must be epoch milliseconds or a date-time string")

// Layouts without an offset are read in the configured location.
// Hours may have one digit ("2024-06-25 8:00:00").
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// maxDateMillis bounds numeric dates to +/-100,000,000 days around the epoch
const maxDateMillis = 8.64e15

// DateInput accepts a JSON number (epoch ms) or a date string
type DateInput struct {
	millis  int64
	text    string
	numeric bool
}

// UnmarshalJSON implements json.Unmarshaler
func (d *DateInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return ErrInvalidDate
		}
		*d = DateInput{text: s}
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return ErrInvalidDate
	}
	if n != math.Trunc(n) || math.Abs(n) > maxDateMillis {
		return ErrInvalidDate
	}
	*d = DateInput{millis: int64(n), numeric: true}
	return nil
}

// Millis resolves the input to epoch milliseconds
func (d *DateInput) Millis(loc *time.Location) (int64, error) {
	if d.numeric {
		return d.millis, nil
	}

	t, err := parseDate(strings.TrimSpace(d.text), loc)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	// date-only strings are UTC midnight
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
