package store

import (
	"strconv"
	"time"
)

// Timestamp is a server-assigned point in time. Clients never compare wall
// clocks; the only comparison surface is Millis.
type Timestamp struct {
	ms int64
}

func TimestampFromMillis(ms int64) Timestamp {
	return Timestamp{ms: ms}
}

func (t Timestamp) Millis() int64 {
	return t.ms
}

func (t Timestamp) Time() time.Time {
	return time.UnixMilli(t.ms).UTC()
}

func (t Timestamp) Before(other Timestamp) bool {
	return t.ms < other.ms
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.ms, 10)), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	t.ms = ms
	return nil
}
