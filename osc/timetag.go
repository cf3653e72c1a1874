package osc

import (
	"fmt"
	"math"
	"time"
)

const (
	// Immediate is the special time tag meaning "execute immediately".
	Immediate = Timetag(1)

	// secondsFrom1900To1970 is the offset between the NTP and Unix epochs.
	secondsFrom1900To1970 = 2208988800

	fractionScale = float64(0xFFFFFFFF)
)

// Timetag represents an OSC Time Tag.
// An OSC Time Tag is defined as follows:
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
//
// Timetags compare by their raw value, so the usual operators order them.
type Timetag uint64

// NewTimetag returns the immediate time tag.
func NewTimetag() Timetag {
	return Immediate
}

// NewTimetagFromTime returns a new OSC time tag from a time.Time. The
// fractional part only carries millisecond resolution.
func NewTimetagFromTime(timeStamp time.Time) Timetag {
	return timeToTimetag(timeStamp)
}

// Time returns the time, rounded to the millisecond.
func (t Timetag) Time() time.Time {
	return timetagToTime(t)
}

// FractionalSecond returns the last 32 bits of the OSC time tag. Specifies the
// fractional part of a second.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// SecondsSinceEpoch returns the first 32 bits (the number of seconds since the
// midnight 1900) from the OSC time tag.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// TimeTag returns the time tag value
func (t Timetag) TimeTag() uint64 {
	return uint64(t)
}

// IsImmediate reports whether t is the immediate sentinel.
func (t Timetag) IsImmediate() bool {
	return t == Immediate
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after o. The immediate sentinel is not special-cased.
func (t Timetag) Compare(o Timetag) int {
	switch {
	case t < o:
		return -1
	case t > o:
		return 1
	}
	return 0
}

func (t Timetag) Before(o Timetag) bool { return t < o }
func (t Timetag) After(o Timetag) bool  { return t > o }
func (t Timetag) Equal(o Timetag) bool  { return t == o }

// String implements the fmt.Stringer interface.
func (t Timetag) String() string {
	if t.IsImmediate() {
		return "When:Immediate"
	}
	return fmt.Sprintf("When:%s Seconds:%d Fraction:%d",
		t.Time().Local().Format("2006-01-02 15:04:05.000"), t.SecondsSinceEpoch(), t.FractionalSecond())
}

// MarshalBinary converts the OSC time tag to a byte array.
func (t Timetag) MarshalBinary() ([]byte, error) {
	return appendUint64(make([]byte, 0, bit64Size), uint64(t)), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (t *Timetag) UnmarshalBinary(data []byte) error {
	v, _, err := ReadUint64(NewCursor(data))
	if err != nil {
		return wrapKind(ErrInvalidTimetag, err)
	}
	*t = Timetag(v)
	return nil
}

// ExpiresIn calculates the duration until the current time is the same as the
// value of the time tag. It returns zero if the value of the time tag is in the
// past or immediate.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= Immediate {
		return 0
	}

	d := time.Until(timetagToTime(t))
	if d <= 0 {
		return 0
	}

	return d
}

// timeToTimetag converts the given time to an OSC time tag. Seconds are
// truncated; the fraction is the millisecond part scaled to 32 bits.
func timeToTimetag(t time.Time) Timetag {
	seconds := uint64(t.Unix()+secondsFrom1900To1970) << 32
	ms := t.Nanosecond() / int(time.Millisecond)
	fraction := uint64(float64(ms) / 1000 * fractionScale)
	return Timetag(seconds | fraction)
}

// timetagToTime converts the given timetag to a time object.
func timetagToTime(t Timetag) time.Time {
	ms := math.Round(float64(t.FractionalSecond()) / fractionScale * 1000)
	sec := int64(t.SecondsSinceEpoch()) - secondsFrom1900To1970
	return time.Unix(sec, 0).Add(time.Duration(ms) * time.Millisecond)
}
