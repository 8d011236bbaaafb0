package common

import (
	"time"

	"github.com/golang-sql/civil"
)

// Temporal converters try the structured wire variant first and fall back
// to the textual encoding when the source is KindBytes. The structured
// variants carry whatever came off the wire, so both paths validate that
// the fields form a real calendar value - month 13 fails, it is never
// clamped.

func civilDateTime(dt Datetime) civil.DateTime {
	return civil.DateTime{
		Date: civil.Date{
			Year:  int(dt.Year),
			Month: time.Month(dt.Month),
			Day:   int(dt.Day),
		},
		Time: civil.Time{
			Hour:       int(dt.Hour),
			Minute:     int(dt.Minute),
			Second:     int(dt.Second),
			Nanosecond: int(dt.Microsecond) * 1000,
		},
	}
}

// datetimeSource extracts the Datetime payload of a value, decoding the
// textual layout when the source is KindBytes.
func datetimeSource(v Value) (Datetime, bool) {
	switch v.kind {
	case KindDate:
		return v.dt, true
	case KindBytes:
		return ParseDatetime(v.b)
	}
	return Datetime{}, false
}

// Timestamp converts DATETIME/TIMESTAMP values to a UTC time.Time.
var Timestamp = Converter[time.Time](func(v Value) (Ir[time.Time], error) {
	dt, ok := datetimeSource(v)
	if !ok {
		return nil, &ConversionError{Value: v}
	}
	cdt := civilDateTime(dt)
	if !cdt.IsValid() {
		return nil, &ConversionError{Value: v}
	}
	return parseIr[time.Time]{value: v, output: cdt.In(time.UTC)}, nil
})

// LocalDateTime converts DATETIME/TIMESTAMP values to a zone-less
// civil.DateTime.
var LocalDateTime = Converter[civil.DateTime](func(v Value) (Ir[civil.DateTime], error) {
	dt, ok := datetimeSource(v)
	if !ok {
		return nil, &ConversionError{Value: v}
	}
	cdt := civilDateTime(dt)
	if !cdt.IsValid() {
		return nil, &ConversionError{Value: v}
	}
	return parseIr[civil.DateTime]{value: v, output: cdt}, nil
})

// Date converts DATE values to a civil.Date. A datetime-shaped source is
// accepted too, with its time fields discarded.
var Date = Converter[civil.Date](func(v Value) (Ir[civil.Date], error) {
	dt, ok := datetimeSource(v)
	if !ok {
		return nil, &ConversionError{Value: v}
	}
	d := civil.Date{Year: int(dt.Year), Month: time.Month(dt.Month), Day: int(dt.Day)}
	if !d.IsValid() {
		return nil, &ConversionError{Value: v}
	}
	return parseIr[civil.Date]{value: v, output: d}, nil
})

// TimeOfDay converts non-negative, less-than-a-day TIME values to a
// civil.Time. Negative durations and durations of 24 hours or more fail.
var TimeOfDay = Converter[civil.Time](func(v Value) (Ir[civil.Time], error) {
	td, ok := timeSource(v)
	if !ok || td.Negative || td.Days != 0 {
		return nil, &ConversionError{Value: v}
	}
	ct := civil.Time{
		Hour:       int(td.Hours),
		Minute:     int(td.Minutes),
		Second:     int(td.Seconds),
		Nanosecond: int(td.Microsecond) * 1000,
	}
	if !ct.IsValid() {
		return nil, &ConversionError{Value: v}
	}
	return parseIr[civil.Time]{value: v, output: ct}, nil
})

// timeSource extracts the Time payload of a value, decoding the textual
// layout when the source is KindBytes.
func timeSource(v Value) (Time, bool) {
	switch v.kind {
	case KindTime:
		return v.td, true
	case KindBytes:
		return ParseTime(v.b)
	}
	return Time{}, false
}

func goDuration(td Time) time.Duration {
	d := time.Duration(uint64(td.Days)*24+uint64(td.Hours))*time.Hour +
		time.Duration(td.Minutes)*time.Minute +
		time.Duration(td.Seconds)*time.Second +
		time.Duration(td.Microsecond)*time.Microsecond
	if td.Negative {
		return -d
	}
	return d
}

// Duration converts TIME values to a signed time.Duration.
var Duration = Converter[time.Duration](func(v Value) (Ir[time.Duration], error) {
	td, ok := timeSource(v)
	if !ok {
		return nil, &ConversionError{Value: v}
	}
	return parseIr[time.Duration]{value: v, output: goDuration(td)}, nil
})

// NonNegativeDuration is Duration for targets that cannot represent a
// negative span. A negative source fails - it is never converted to its
// absolute value.
var NonNegativeDuration = Converter[time.Duration](func(v Value) (Ir[time.Duration], error) {
	td, ok := timeSource(v)
	if !ok || td.Negative {
		return nil, &ConversionError{Value: v}
	}
	return parseIr[time.Duration]{value: v, output: goDuration(td)}, nil
})
