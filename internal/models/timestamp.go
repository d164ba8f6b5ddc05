package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// ISOMillis is the absolute timestamp layout used on the wire and in exports.
const ISOMillis = "2006-01-02T15:04:05.000Z"

// Timestamp keeps the backend's textual form next to the parsed time, so
// values are exported exactly as received even if they do not parse.
type Timestamp struct {
	Time time.Time
	raw  string
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) IsZero() bool {
	return t.raw == "" && t.Time.IsZero()
}

func (t Timestamp) String() string {
	if t.raw != "" {
		return t.raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.UTC().Format(ISOMillis)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t.raw = s
	t.Time = time.Time{}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}
