package common

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConversionError reports a value that could not be converted to the
// requested target type. Value is the original wire value, untouched or
// reconstructed, so callers can retry with a different target type or use
// it to build diagnostics. It is never discarded.
type ConversionError struct {
	Value Value
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("value %s is not convertible to the requested type", e.Value)
}

// Ir is the intermediate of a two-phase conversion. It holds exactly the
// storage needed to either produce the target value or hand back the
// original one, so a failed conversion attempt never forces an up-front
// clone of the source. Exactly one of Commit or Rollback must be called.
type Ir[T any] interface {
	// Commit consumes the intermediate and yields the target value.
	Commit() T
	// Rollback consumes the intermediate and reconstructs the original
	// wire value.
	Rollback() Value
}

// Converter produces the conversion intermediate for one target type. The
// package provides a Converter for every supported target; callers pick one
// at compile time rather than the package inspecting the requested type at
// runtime.
type Converter[T any] func(v Value) (Ir[T], error)

// Intermediate is the low-level entry point used by composite conversions
// such as Nullable.
func (c Converter[T]) Intermediate(v Value) (Ir[T], error) {
	return c(v)
}

// FromValueOpt converts v, returning a ConversionError carrying the
// original value if v is not convertible.
func (c Converter[T]) FromValueOpt(v Value) (T, error) {
	ir, err := c(v)
	if err != nil {
		var zero T
		return zero, err
	}
	return ir.Commit(), nil
}

// FromValue converts v and panics if it is not convertible. Use this form
// only where a failure would indicate a schema mismatch in the program
// itself; production code should prefer FromValueOpt.
func (c Converter[T]) FromValue(v Value) T {
	t, err := c.FromValueOpt(v)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// parseIr carries a decoded output alongside the untouched source value.
type parseIr[T any] struct {
	value  Value
	output T
}

func (ir parseIr[T]) Commit() T {
	return ir.output
}

func (ir parseIr[T]) Rollback() Value {
	return ir.value
}

type signedInt interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int
}

type unsignedInt interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// signedConverter converts KindInt, KindUint and textual KindBytes sources
// into a signed integer of the given exact range. Out of range values fail,
// they are never truncated.
func signedConverter[T signedInt](min, max int64) Converter[T] {
	return func(v Value) (Ir[T], error) {
		switch v.kind {
		case KindInt:
			if v.i >= min && v.i <= max {
				return parseIr[T]{value: v, output: T(v.i)}, nil
			}
		case KindUint:
			if v.u <= uint64(max) {
				return parseIr[T]{value: v, output: T(v.u)}, nil
			}
		case KindBytes:
			x, err := strconv.ParseInt(ByteSliceToStringZeroCopy(v.b), 10, 64)
			if err == nil && x >= min && x <= max {
				return parseIr[T]{value: v, output: T(x)}, nil
			}
		}
		return nil, &ConversionError{Value: v}
	}
}

// unsignedConverter is the unsigned counterpart of signedConverter.
// Negative sources fail.
func unsignedConverter[T unsignedInt](max uint64) Converter[T] {
	return func(v Value) (Ir[T], error) {
		switch v.kind {
		case KindInt:
			if v.i >= 0 && uint64(v.i) <= max {
				return parseIr[T]{value: v, output: T(v.i)}, nil
			}
		case KindUint:
			if v.u <= max {
				return parseIr[T]{value: v, output: T(v.u)}, nil
			}
		case KindBytes:
			x, err := strconv.ParseUint(ByteSliceToStringZeroCopy(v.b), 10, 64)
			if err == nil && x <= max {
				return parseIr[T]{value: v, output: T(x)}, nil
			}
		}
		return nil, &ConversionError{Value: v}
	}
}

// Converters for every integer width. Each accepts KindInt and KindUint
// within the exact range of the target, plus textual KindBytes parsed in
// base 10.
var (
	Int8   = signedConverter[int8](math.MinInt8, math.MaxInt8)
	Int16  = signedConverter[int16](math.MinInt16, math.MaxInt16)
	Int32  = signedConverter[int32](math.MinInt32, math.MaxInt32)
	Int64  = signedConverter[int64](math.MinInt64, math.MaxInt64)
	Int    = signedConverter[int](math.MinInt, math.MaxInt)
	Uint8  = unsignedConverter[uint8](math.MaxUint8)
	Uint16 = unsignedConverter[uint16](math.MaxUint16)
	Uint32 = unsignedConverter[uint32](math.MaxUint32)
	Uint64 = unsignedConverter[uint64](math.MaxUint64)
	Uint   = unsignedConverter[uint](math.MaxUint)
)

// Float64 accepts KindFloat directly and parses textual KindBytes.
var Float64 = Converter[float64](func(v Value) (Ir[float64], error) {
	switch v.kind {
	case KindFloat:
		return parseIr[float64]{value: v, output: v.f}, nil
	case KindBytes:
		x, err := strconv.ParseFloat(ByteSliceToStringZeroCopy(v.b), 64)
		if err == nil {
			return parseIr[float64]{value: v, output: x}, nil
		}
	}
	return nil, &ConversionError{Value: v}
})

// Float32 accepts KindFloat within the finite float32 range and parses
// textual KindBytes at 32 bit precision.
var Float32 = Converter[float32](func(v Value) (Ir[float32], error) {
	switch v.kind {
	case KindFloat:
		if v.f >= -math.MaxFloat32 && v.f <= math.MaxFloat32 {
			return parseIr[float32]{value: v, output: float32(v.f)}, nil
		}
	case KindBytes:
		x, err := strconv.ParseFloat(ByteSliceToStringZeroCopy(v.b), 32)
		if err == nil {
			return parseIr[float32]{value: v, output: float32(x)}, nil
		}
	}
	return nil, &ConversionError{Value: v}
})

// Bool accepts exactly Int 0, Int 1 and the single byte texts "0" and "1".
// This is deliberately not general truthiness - MySQL booleans are TINYINT
// columns and anything else indicates a schema mismatch.
var Bool = Converter[bool](func(v Value) (Ir[bool], error) {
	switch v.kind {
	case KindInt:
		if v.i == 0 || v.i == 1 {
			return parseIr[bool]{value: v, output: v.i == 1}, nil
		}
	case KindBytes:
		if len(v.b) == 1 && (v.b[0] == '0' || v.b[0] == '1') {
			return parseIr[bool]{value: v, output: v.b[0] == '1'}, nil
		}
	}
	return nil, &ConversionError{Value: v}
})

// stringIr owns the byte buffer of a validated UTF-8 source so Commit can
// hand it to the string without re-copying.
type stringIr struct {
	bytes []byte
}

func (ir stringIr) Commit() string {
	return ByteSliceToStringZeroCopy(ir.bytes)
}

func (ir stringIr) Rollback() Value {
	return BytesValue(ir.bytes)
}

// String accepts KindBytes holding valid UTF-8. The byte buffer is
// transferred into the string without copying.
var String = Converter[string](func(v Value) (Ir[string], error) {
	if v.kind == KindBytes && utf8.Valid(v.b) {
		return stringIr{bytes: v.b}, nil
	}
	return nil, &ConversionError{Value: v}
})

type bytesIr struct {
	bytes []byte
}

func (ir bytesIr) Commit() []byte {
	return ir.bytes
}

func (ir bytesIr) Rollback() Value {
	return BytesValue(ir.bytes)
}

// Bytes accepts only KindBytes and yields the raw buffer.
var Bytes = Converter[[]byte](func(v Value) (Ir[[]byte], error) {
	if v.kind == KindBytes {
		return bytesIr{bytes: v.b}, nil
	}
	return nil, &ConversionError{Value: v}
})

type bytesCopyIr struct {
	bytes []byte
}

func (ir bytesCopyIr) Commit() []byte {
	return CopyByteSlice(ir.bytes)
}

func (ir bytesCopyIr) Rollback() Value {
	return BytesValue(ir.bytes)
}

// BytesCopied is Bytes with an owned result: Commit yields a copy of the
// buffer, for callers whose result must outlive the row's backing memory.
var BytesCopied = Converter[[]byte](func(v Value) (Ir[[]byte], error) {
	if v.kind == KindBytes {
		return bytesCopyIr{bytes: v.b}, nil
	}
	return nil, &ConversionError{Value: v}
})

type identityIr struct {
	value Value
}

func (ir identityIr) Commit() Value {
	return ir.value
}

func (ir identityIr) Rollback() Value {
	return ir.value
}

// Identity converts any value to itself. It never fails and its rollback is
// a no-op.
var Identity = Converter[Value](func(v Value) (Ir[Value], error) {
	return identityIr{value: v}, nil
})

// nullableIr delegates to the wrapped intermediate, or stands in for a NULL
// source when ir is nil.
type nullableIr[T any] struct {
	ir Ir[T]
}

func (n nullableIr[T]) Commit() *T {
	if n.ir == nil {
		return nil
	}
	t := n.ir.Commit()
	return &t
}

func (n nullableIr[T]) Rollback() Value {
	if n.ir == nil {
		return NullValue()
	}
	return n.ir.Rollback()
}

// Nullable adapts a converter to a nullable column: NULL always succeeds
// and commits to nil, anything else goes through c.
func Nullable[T any](c Converter[T]) Converter[*T] {
	return func(v Value) (Ir[*T], error) {
		if v.kind == KindNull {
			return nullableIr[T]{}, nil
		}
		inner, err := c.Intermediate(v)
		if err != nil {
			return nil, err
		}
		return nullableIr[T]{ir: inner}, nil
	}
}

// uuidIr keeps the source buffer alongside the parsed UUID so rollback can
// restore the exact wire bytes.
type uuidIr struct {
	val   uuid.UUID
	bytes []byte
}

func (ir uuidIr) Commit() uuid.UUID {
	return ir.val
}

func (ir uuidIr) Rollback() Value {
	return BytesValue(ir.bytes)
}

// UUID accepts KindBytes holding either the 16 byte binary form or a
// textual UUID.
var UUID = Converter[uuid.UUID](func(v Value) (Ir[uuid.UUID], error) {
	if v.kind != KindBytes {
		return nil, &ConversionError{Value: v}
	}
	if len(v.b) == 16 {
		val, err := uuid.FromBytes(v.b)
		if err == nil {
			return uuidIr{val: val, bytes: v.b}, nil
		}
	} else {
		val, err := uuid.ParseBytes(v.b)
		if err == nil {
			return uuidIr{val: val, bytes: v.b}, nil
		}
	}
	return nil, &ConversionError{Value: v}
})

// Decimal accepts textual KindBytes (how DECIMAL columns arrive on the
// wire) as well as integer and float sources.
var Decimal = Converter[decimal.Decimal](func(v Value) (Ir[decimal.Decimal], error) {
	switch v.kind {
	case KindBytes:
		d, err := decimal.NewFromString(ByteSliceToStringZeroCopy(v.b))
		if err == nil {
			return parseIr[decimal.Decimal]{value: v, output: d}, nil
		}
	case KindInt:
		return parseIr[decimal.Decimal]{value: v, output: decimal.NewFromInt(v.i)}, nil
	case KindUint:
		d := decimal.NewFromBigInt(new(big.Int).SetUint64(v.u), 0)
		return parseIr[decimal.Decimal]{value: v, output: d}, nil
	case KindFloat:
		return parseIr[decimal.Decimal]{value: v, output: decimal.NewFromFloat(v.f)}, nil
	}
	return nil, &ConversionError{Value: v}
})
