package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the on-disk form of an entry's creation time, local
// wall clock with microseconds.
const TimestampLayout = "2006-01-02 15:04:05.000000"

type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(TimestampLayout))
}

// UnmarshalJSON also accepts timestamps without the fractional part.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		return fmt.Errorf("cache timestamp %q: %w", s, err)
	}
	*t = Timestamp(parsed)
	return nil
}
