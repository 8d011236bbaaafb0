package common

import (
	"fmt"
	"math"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reverse construction: total mappings from host types into wire values.
// The only failure mode is the year-range panic on calendar encodes - the
// wire layout cannot express years outside [1000, 9999]. Decoding has no
// such restriction.

func checkYear(year int) {
	if year < 1000 || year > 9999 {
		panic(fmt.Sprintf("year %d outside the encodable range [1000, 9999]", year))
	}
}

// DatetimeOf encodes a time.Time into the structured wire form, discarding
// the location. Panics if the year is outside [1000, 9999].
func DatetimeOf(t time.Time) Datetime {
	checkYear(t.Year())
	return Datetime{
		Year:        uint16(t.Year()),
		Month:       uint8(t.Month()),
		Day:         uint8(t.Day()),
		Hour:        uint8(t.Hour()),
		Minute:      uint8(t.Minute()),
		Second:      uint8(t.Second()),
		Microsecond: uint32(t.Nanosecond() / 1000),
	}
}

// TimeOf encodes a duration into the structured wire form, splitting the
// magnitude into days and clock fields with an explicit sign flag.
func TimeOf(d time.Duration) Time {
	neg := d < 0
	if neg {
		d = -d
	}
	return Time{
		Negative:    neg,
		Days:        uint32(d / (24 * time.Hour)),
		Hours:       uint8(d / time.Hour % 24),
		Minutes:     uint8(d / time.Minute % 60),
		Seconds:     uint8(d / time.Second % 60),
		Microsecond: uint32(d / time.Microsecond % 1e6),
	}
}

func BoolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

// ToValue maps a host value into its wire form. Signed integers and
// unsigned values representable as int64 map to KindInt; only unsigned
// values above math.MaxInt64 need KindUint. Text and raw bytes map to
// KindBytes without re-encoding. nil maps to NULL.
//
// Panics for unsupported host types and for calendar values with a year
// outside [1000, 9999].
func ToValue(x interface{}) Value {
	switch v := x.(type) {
	case nil:
		return NullValue()
	case Value:
		return v
	case bool:
		return BoolValue(v)
	case int:
		return IntValue(int64(v))
	case int8:
		return IntValue(int64(v))
	case int16:
		return IntValue(int64(v))
	case int32:
		return IntValue(int64(v))
	case int64:
		return IntValue(v)
	case uint:
		return uintToValue(uint64(v))
	case uint8:
		return IntValue(int64(v))
	case uint16:
		return IntValue(int64(v))
	case uint32:
		return IntValue(int64(v))
	case uint64:
		return uintToValue(v)
	case float32:
		return FloatValue(float64(v))
	case float64:
		return FloatValue(v)
	case string:
		return StringValue(v)
	case []byte:
		return BytesValue(v)
	case Datetime:
		return DateValue(v)
	case Time:
		return TimeValue(v)
	case time.Time:
		return DateValue(DatetimeOf(v))
	case time.Duration:
		return TimeValue(TimeOf(v))
	case civil.Date:
		checkYear(v.Year)
		return DateValue(Datetime{Year: uint16(v.Year), Month: uint8(v.Month), Day: uint8(v.Day)})
	case civil.DateTime:
		checkYear(v.Date.Year)
		return DateValue(Datetime{
			Year:        uint16(v.Date.Year),
			Month:       uint8(v.Date.Month),
			Day:         uint8(v.Date.Day),
			Hour:        uint8(v.Time.Hour),
			Minute:      uint8(v.Time.Minute),
			Second:      uint8(v.Time.Second),
			Microsecond: uint32(v.Time.Nanosecond / 1000),
		})
	case civil.Time:
		return TimeValue(Time{
			Hours:       uint8(v.Hour),
			Minutes:     uint8(v.Minute),
			Seconds:     uint8(v.Second),
			Microsecond: uint32(v.Nanosecond / 1000),
		})
	case uuid.UUID:
		return BytesValue(v[:])
	case decimal.Decimal:
		return StringValue(v.String())
	default:
		panic(fmt.Sprintf("cannot map a value of type %T", x))
	}
}

func uintToValue(u uint64) Value {
	if u <= math.MaxInt64 {
		return IntValue(int64(u))
	}
	return UintValue(u)
}

// ValueOrNull maps a possibly absent host value, NULL when p is nil.
func ValueOrNull[T any](p *T) Value {
	if p == nil {
		return NullValue()
	}
	return ToValue(*p)
}
