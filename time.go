package weave

import (
	"encoding/json"
	"math"
	"time"

	"github.com/iov-one/timelock/errors"
)

// UnixTime represents a point in time as POSIX time, with seconds
// precision. It is the timestamp the escrow time bounds are expressed in.
type UnixTime int64

// MaxUnixTime is the latest representable moment.
const MaxUnixTime UnixTime = math.MaxInt64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by given duration. This is compatible with
// time.Time.Add method.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AddSeconds moves the time forward by given amount of seconds, saturating
// at MaxUnixTime instead of wrapping around.
func (t UnixTime) AddSeconds(s uint64) UnixTime {
	if t < 0 {
		// Distance to zero, safe for the minimal value.
		back := uint64(-(t + 1)) + 1
		if s <= back {
			return t + UnixTime(s)
		}
		return UnixTime(0).AddSeconds(s - back)
	}
	if s > uint64(MaxUnixTime-t) {
		return MaxUnixTime
	}
	return t + UnixTime(s)
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it is
// convinient to use a string format in configurations (ie genesis file).
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		unix := UnixTime(stdtime.Unix())
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = unix
		return nil
	}

	return errors.Wrap(errors.ErrInput, "invalid time format")
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t UnixTime) String() string {
	return t.Time().String()
}
