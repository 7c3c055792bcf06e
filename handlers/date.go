package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateTime accepts RFC3339 timestamps and plain dates (midnight UTC).
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", raw)
	}
	d.Time = t
	return nil
}
