package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the wire-level representation of a Value.
type Kind int

const (
	// KindUnknown is the kind of the zero Value. It marks an empty row slot
	// and is never produced by the protocol layer.
	KindUnknown Kind = iota
	KindNull
	KindInt
	KindUint
	KindFloat
	KindBytes
	KindDate
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInt:
		return "INT"
	case KindUint:
		return "UINT"
	case KindFloat:
		return "FLOAT"
	case KindBytes:
		return "BYTES"
	case KindDate:
		return "DATE"
	case KindTime:
		return "TIME"
	default:
		return "UNKNOWN"
	}
}

// Datetime is the structured wire form of a MySQL DATE, DATETIME or
// TIMESTAMP column value. The fields are exactly what came off the wire -
// no calendar validity is implied. Validity is checked when converting to a
// calendar type, not here.
type Datetime struct {
	Year        uint16
	Month       uint8
	Day         uint8
	Hour        uint8
	Minute      uint8
	Second      uint8
	Microsecond uint32
}

// String renders the textual wire layout, "YYYY-MM-DD HH:MM:SS" with a
// six digit fractional suffix when the microsecond field is non-zero.
func (dt Datetime) String() string {
	if dt.Microsecond == 0 {
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
			dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second)
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%06d",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second, dt.Microsecond)
}

// Time is the structured wire form of a MySQL TIME column value. It is a
// signed duration, not a time of day: the sign lives in Negative rather
// than in the day count, and the magnitude can reach MySQL's 838 hour
// limit.
type Time struct {
	Negative    bool
	Days        uint32
	Hours       uint8
	Minutes     uint8
	Seconds     uint8
	Microsecond uint32
}

// String renders the textual wire layout, "[-]HH:MM:SS" with the hour field
// widening past two digits as needed and a six digit fractional suffix when
// the microsecond field is non-zero.
func (t Time) String() string {
	hours := uint64(t.Days)*24 + uint64(t.Hours)
	sign := ""
	if t.Negative {
		sign = "-"
	}
	if t.Microsecond == 0 {
		return fmt.Sprintf("%s%02d:%02d:%02d", sign, hours, t.Minutes, t.Seconds)
	}
	return fmt.Sprintf("%s%02d:%02d:%02d.%06d", sign, hours, t.Minutes, t.Seconds, t.Microsecond)
}

// Value is the dynamically typed representation of one column value as
// decoded from the wire. The same logical value can arrive in different
// representations - an integer column may be delivered as KindInt,
// KindUint or, in the text protocol, as KindBytes - so consumers convert
// through the typed Converters rather than switching on Kind directly.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	b    []byte
	dt   Datetime
	td   Time
}

// NullValue returns the SQL NULL value.
func NullValue() Value {
	return Value{kind: KindNull}
}

func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func UintValue(u uint64) Value {
	return Value{kind: KindUint, u: u}
}

func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// BytesValue wraps b without copying. The caller must not mutate b
// afterwards.
func BytesValue(b []byte) Value {
	return Value{kind: KindBytes, b: b}
}

// StringValue wraps the bytes of s without copying or re-encoding.
func StringValue(s string) Value {
	return Value{kind: KindBytes, b: StringToByteSliceZeroCopy(s)}
}

func DateValue(dt Datetime) Value {
	return Value{kind: KindDate, dt: dt}
}

func TimeValue(t Time) Value {
	return Value{kind: KindTime, td: t}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Int returns the payload of a KindInt value. The result is unspecified for
// other kinds.
func (v Value) Int() int64 {
	return v.i
}

// Uint returns the payload of a KindUint value.
func (v Value) Uint() uint64 {
	return v.u
}

// Float returns the payload of a KindFloat value.
func (v Value) Float() float64 {
	return v.f
}

// Bytes returns the payload of a KindBytes value. The slice is not copied.
func (v Value) Bytes() []byte {
	return v.b
}

// Datetime returns the payload of a KindDate value.
func (v Value) Datetime() Datetime {
	return v.dt
}

// Time returns the payload of a KindTime value.
func (v Value) Time() Time {
	return v.td
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBytes:
		return strconv.Quote(ByteSliceToStringZeroCopy(v.b))
	case KindDate:
		return v.dt.String()
	case KindTime:
		return v.td.String()
	default:
		return "<unknown>"
	}
}

// AsSQL renders the value as a MySQL literal suitable for interpolation
// into a statement by the query layer. Bytes are quoted and escaped,
// temporal values are quoted in their textual wire layout.
func (v Value) AsSQL() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBytes:
		return quoteSQL(v.b)
	case KindDate:
		return "'" + v.dt.String() + "'"
	case KindTime:
		return "'" + v.td.String() + "'"
	default:
		panic("cannot render an empty value as SQL")
	}
}

// quoteSQL single-quotes b, escaping the characters MySQL requires escaped
// inside string literals.
func quoteSQL(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) + 2)
	sb.WriteByte('\'')
	for _, c := range b {
		switch c {
		case 0x00:
			sb.WriteString(`\0`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case 0x1a:
			sb.WriteString(`\Z`)
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
