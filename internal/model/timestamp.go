package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is an instant that travels on the wire as Unix milliseconds.
// The zero Timestamp encodes as 0.
type Timestamp struct {
	time.Time
}

// At wraps t, truncated to millisecond precision so values survive a JSON
// round trip unchanged.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Millisecond)}
}

// FromMillis converts Unix milliseconds to a Timestamp. Zero maps to the zero Timestamp.
func FromMillis(ms int64) Timestamp {
	if ms == 0 {
		return Timestamp{}
	}
	return Timestamp{Time: time.UnixMilli(ms)}
}

// Millis returns the Unix millisecond value, or 0 for the zero Timestamp.
func (t Timestamp) Millis() int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Ptr returns a pointer to a copy of t.
func (t Timestamp) Ptr() *Timestamp {
	return &t
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%d", t.Millis())), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*t = FromMillis(int64(ms))
	return nil
}
