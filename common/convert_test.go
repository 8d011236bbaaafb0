package common

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// requireNotConvertible asserts a conversion fails and that the failed
// value survives in the error.
func requireNotConvertible[T any](t *testing.T, conv Converter[T], v Value) {
	t.Helper()
	_, err := conv.FromValueOpt(v)
	require.Error(t, err)
	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	require.Equal(t, v, convErr.Value)
}

func requireConverts[T any](t *testing.T, conv Converter[T], v Value, expected T) {
	t.Helper()
	actual, err := conv.FromValueOpt(v)
	require.NoError(t, err)
	require.Equal(t, expected, actual)
}

func TestIntegerConversionOverflowFailsEveryWidth(t *testing.T) {
	for _, text := range []string{"18446744073709551616", "-18446744073709551616"} {
		v := StringValue(text)
		requireNotConvertible(t, Int8, v)
		requireNotConvertible(t, Int16, v)
		requireNotConvertible(t, Int32, v)
		requireNotConvertible(t, Int64, v)
		requireNotConvertible(t, Int, v)
		requireNotConvertible(t, Uint8, v)
		requireNotConvertible(t, Uint16, v)
		requireNotConvertible(t, Uint32, v)
		requireNotConvertible(t, Uint, v)
	}
	// the positive text is exactly MaxUint64 + 1 so it also misses uint64
	requireNotConvertible(t, Uint64, StringValue("18446744073709551616"))
	requireConverts(t, Uint64, StringValue("18446744073709551615"), uint64(math.MaxUint64))
}

func TestNegativeTextConversion(t *testing.T) {
	v := StringValue("-3")
	requireConverts(t, Int8, v, int8(-3))
	requireConverts(t, Int16, v, int16(-3))
	requireConverts(t, Int32, v, int32(-3))
	requireConverts(t, Int64, v, int64(-3))
	requireConverts(t, Float32, v, float32(-3))
	requireConverts(t, Float64, v, float64(-3))
	requireNotConvertible(t, Uint8, v)
	requireNotConvertible(t, Uint64, v)
}

func TestIntegerExactRangeChecks(t *testing.T) {
	requireConverts(t, Int8, IntValue(127), int8(127))
	requireNotConvertible(t, Int8, IntValue(128))
	requireConverts(t, Int8, IntValue(-128), int8(-128))
	requireNotConvertible(t, Int8, IntValue(-129))

	requireConverts(t, Uint8, IntValue(255), uint8(255))
	requireNotConvertible(t, Uint8, IntValue(256))
	requireNotConvertible(t, Uint8, IntValue(-1))
	requireNotConvertible(t, Uint64, IntValue(-1))

	requireConverts(t, Int8, UintValue(127), int8(127))
	requireNotConvertible(t, Int8, UintValue(128))
	requireConverts(t, Int64, UintValue(math.MaxInt64), int64(math.MaxInt64))
	requireNotConvertible(t, Int64, UintValue(math.MaxInt64+1))

	requireConverts(t, Int64, IntValue(math.MinInt64), int64(math.MinInt64))
	requireConverts(t, Uint64, UintValue(math.MaxUint64), uint64(math.MaxUint64))
}

func TestIntegerConversionRejectsOtherKinds(t *testing.T) {
	requireNotConvertible(t, Int64, FloatValue(1))
	requireNotConvertible(t, Int64, NullValue())
	requireNotConvertible(t, Int64, DateValue(Datetime{Year: 2024, Month: 1, Day: 1}))
	requireNotConvertible(t, Int64, StringValue("12.5"))
	requireNotConvertible(t, Int64, StringValue(""))
}

func TestFloatConversion(t *testing.T) {
	requireConverts(t, Float64, FloatValue(1.25), 1.25)
	requireConverts(t, Float64, StringValue("1.25"), 1.25)
	requireConverts(t, Float32, FloatValue(1.25), float32(1.25))
	requireConverts(t, Float32, StringValue("1.25"), float32(1.25))
	requireNotConvertible(t, Float64, IntValue(1))
	requireNotConvertible(t, Float64, StringValue("abc"))
	// beyond the finite float32 range
	requireNotConvertible(t, Float32, FloatValue(1e300))
	requireConverts(t, Float64, FloatValue(1e300), 1e300)
}

func TestBoolConversionIsStrict(t *testing.T) {
	requireConverts(t, Bool, IntValue(0), false)
	requireConverts(t, Bool, IntValue(1), true)
	requireConverts(t, Bool, StringValue("0"), false)
	requireConverts(t, Bool, StringValue("1"), true)

	requireNotConvertible(t, Bool, IntValue(2))
	requireNotConvertible(t, Bool, IntValue(-1))
	requireNotConvertible(t, Bool, UintValue(1))
	requireNotConvertible(t, Bool, StringValue("true"))
	requireNotConvertible(t, Bool, StringValue("10"))
	requireNotConvertible(t, Bool, StringValue(""))
	requireNotConvertible(t, Bool, NullValue())
}

func TestStringConversion(t *testing.T) {
	requireConverts(t, String, StringValue("ada"), "ada")
	requireConverts(t, String, BytesValue([]byte{}), "")
	requireNotConvertible(t, String, IntValue(1))

	// invalid UTF-8 fails with the original bytes recoverable
	bad := BytesValue([]byte{0xff, 0xfe})
	requireNotConvertible(t, String, bad)
}

func TestStringConversionDoesNotCopy(t *testing.T) {
	buf := []byte("shared buffer")
	s, err := String.FromValueOpt(BytesValue(buf))
	require.NoError(t, err)
	require.Equal(t, "shared buffer", s)
	buf[0] = 'S'
	require.Equal(t, "Shared buffer", s)
}

func TestBytesConversion(t *testing.T) {
	requireConverts(t, Bytes, BytesValue([]byte{1, 2, 3}), []byte{1, 2, 3})
	requireNotConvertible(t, Bytes, IntValue(1))
	requireNotConvertible(t, Bytes, NullValue())
}

func TestBytesCopiedConversionOwnsItsResult(t *testing.T) {
	buf := []byte("shared buffer")
	b, err := BytesCopied.FromValueOpt(BytesValue(buf))
	require.NoError(t, err)
	require.Equal(t, []byte("shared buffer"), b)
	buf[0] = 'S'
	require.Equal(t, []byte("shared buffer"), b)

	requireNotConvertible(t, BytesCopied, IntValue(1))

	// rollback hands back the original buffer, not a copy
	ir, err := BytesCopied.Intermediate(BytesValue(buf))
	require.NoError(t, err)
	require.Equal(t, BytesValue(buf), ir.Rollback())
}

func TestIdentityConversion(t *testing.T) {
	for _, v := range []Value{NullValue(), IntValue(-7), UintValue(7), FloatValue(1.5),
		StringValue("x"), DateValue(Datetime{Year: 2024, Month: 1, Day: 2}),
		TimeValue(Time{Negative: true, Hours: 1})} {
		requireConverts(t, Identity, v, v)
		ir, err := Identity.Intermediate(v)
		require.NoError(t, err)
		require.Equal(t, v, ir.Rollback())
	}
}

func TestNullableConversion(t *testing.T) {
	// NULL always succeeds and commits to nil
	p, err := Nullable(Int64).FromValueOpt(NullValue())
	require.NoError(t, err)
	require.Nil(t, p)

	p, err = Nullable(Int64).FromValueOpt(IntValue(7))
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, int64(7), *p)

	// failure of the wrapped conversion carries the untouched value
	requireNotConvertible(t, Nullable(Int64), StringValue("abc"))
}

func TestNullableRollback(t *testing.T) {
	ir, err := Nullable(Int64).Intermediate(NullValue())
	require.NoError(t, err)
	require.Equal(t, NullValue(), ir.Rollback())

	ir2, err := Nullable(String).Intermediate(StringValue("ada"))
	require.NoError(t, err)
	require.Equal(t, StringValue("ada"), ir2.Rollback())
}

func TestRollbackReconstructsOriginal(t *testing.T) {
	orig := BytesValue([]byte("ada"))
	ir, err := String.Intermediate(orig)
	require.NoError(t, err)
	require.Equal(t, orig, ir.Rollback())

	orig = IntValue(42)
	ir2, err := Int64.Intermediate(orig)
	require.NoError(t, err)
	require.Equal(t, orig, ir2.Rollback())
}

func TestConversionFailurePreservesValue(t *testing.T) {
	v := StringValue("abc")
	_, err := Int32.FromValueOpt(v)
	require.Error(t, err)
	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	require.Equal(t, []byte("abc"), convErr.Value.Bytes())
}

func TestFromValuePanicsOnFailure(t *testing.T) {
	require.Panics(t, func() {
		Int64.FromValue(StringValue("abc"))
	})
	require.Equal(t, int64(7), Int64.FromValue(IntValue(7)))
}

func TestUUIDConversion(t *testing.T) {
	id := uuid.New()

	got, err := UUID.FromValueOpt(BytesValue(id[:]))
	require.NoError(t, err)
	require.Equal(t, id, got)

	got, err = UUID.FromValueOpt(StringValue(id.String()))
	require.NoError(t, err)
	require.Equal(t, id, got)

	requireNotConvertible(t, UUID, StringValue("not-a-uuid-at-all"))
	requireNotConvertible(t, UUID, IntValue(1))

	ir, err := UUID.Intermediate(BytesValue(id[:]))
	require.NoError(t, err)
	require.Equal(t, id[:], ir.Rollback().Bytes())
}

func TestDecimalConversion(t *testing.T) {
	d, err := Decimal.FromValueOpt(StringValue("12345678.87654321"))
	require.NoError(t, err)
	require.Equal(t, "12345678.87654321", d.String())

	requireConverts(t, Decimal, IntValue(-5), decimal.NewFromInt(-5))

	d, err = Decimal.FromValueOpt(UintValue(math.MaxUint64))
	require.NoError(t, err)
	require.Equal(t, "18446744073709551615", d.String())

	d, err = Decimal.FromValueOpt(FloatValue(1.5))
	require.NoError(t, err)
	require.True(t, d.Equal(decimal.NewFromFloat(1.5)))

	requireNotConvertible(t, Decimal, StringValue("abc"))
	requireNotConvertible(t, Decimal, NullValue())
}
