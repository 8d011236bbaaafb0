package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func idNameRow() *Row {
	cols := []Column{
		NewColumn("id", IntColumnType),
		NewColumn("name", VarcharColumnType),
	}
	return NewRow([]Value{IntValue(7), StringValue("ada")}, cols)
}

func TestRowAccessByIndexAndName(t *testing.T) {
	r := idNameRow()
	require.Equal(t, 2, r.Len())

	id, ok := Get(r, Int64, 0)
	require.True(t, ok)
	require.Equal(t, int64(7), id)

	name, ok := Get(r, String, "name")
	require.True(t, ok)
	require.Equal(t, "ada", name)

	// Get leaves the slot intact.
	name2, ok := Get(r, String, 1)
	require.True(t, ok)
	require.Equal(t, "ada", name2)
}

func TestRowTakeEmptiesTheSlot(t *testing.T) {
	r := idNameRow()

	name, ok := Take(r, String, "name")
	require.True(t, ok)
	require.Equal(t, "ada", name)

	// The slot is empty now; position 0 is untouched.
	_, ok = Get(r, String, "name")
	require.False(t, ok)
	_, ok = Take(r, String, 1)
	require.False(t, ok)

	id, ok := Get(r, Int64, "id")
	require.True(t, ok)
	require.Equal(t, int64(7), id)
}

func TestRowAbsentSelectors(t *testing.T) {
	r := idNameRow()

	_, ok := Get(r, Int64, -1)
	require.False(t, ok)
	_, ok = Get(r, Int64, 2)
	require.False(t, ok)
	_, ok = Get(r, Int64, "missing")
	require.False(t, ok)
	_, ok = Take(r, Int64, "missing")
	require.False(t, ok)

	_, ok, err := GetOpt(r, Int64, 99)
	require.False(t, ok)
	require.NoError(t, err)
}

func TestRowSelectorTypePanics(t *testing.T) {
	r := idNameRow()
	require.Panics(t, func() {
		Get(r, Int64, 1.0)
	})
	require.Panics(t, func() {
		Take(r, Int64, []byte("id"))
	})
}

func TestRowNameLookupIsExact(t *testing.T) {
	r := idNameRow()
	_, ok := Get(r, Int64, "ID")
	require.False(t, ok)

	// Duplicate names resolve to the first column.
	cols := []Column{NewColumn("x", IntColumnType), NewColumn("x", IntColumnType)}
	dup := NewRow([]Value{IntValue(1), IntValue(2)}, cols)
	v, ok := Get(dup, Int64, "x")
	require.True(t, ok)
	require.Equal(t, int64(1), v)
}

func TestRowCheckedValueAccess(t *testing.T) {
	r := idNameRow()

	v, ok := r.Value(0)
	require.True(t, ok)
	require.Equal(t, IntValue(7), v)

	v, ok = r.ValueNamed("name")
	require.True(t, ok)
	require.Equal(t, StringValue("ada"), v)

	_, ok = r.Value(5)
	require.False(t, ok)
	_, ok = r.ValueNamed("missing")
	require.False(t, ok)

	Take(r, String, "name")
	_, ok = r.Value(1)
	require.False(t, ok)
	_, ok = r.ValueNamed("name")
	require.False(t, ok)
}

func TestRowMustValuePanicsOnTakenSlot(t *testing.T) {
	r := idNameRow()
	require.Equal(t, IntValue(7), r.MustValue(0))
	require.Equal(t, StringValue("ada"), r.MustValueNamed("name"))

	Take(r, String, "name")
	require.Panics(t, func() {
		r.MustValue(1)
	})
	require.Panics(t, func() {
		r.MustValueNamed("name")
	})
	require.Panics(t, func() {
		r.MustValueNamed("missing")
	})
}

func TestRowStringRendersTakenSlots(t *testing.T) {
	r := idNameRow()
	require.Equal(t, `row[id=7,name="ada"]`, r.String())

	Take(r, String, "name")
	require.Equal(t, `row[id=7,name=<taken>]`, r.String())
}

func TestNewRowLengthMismatchPanics(t *testing.T) {
	cols := []Column{NewColumn("id", IntColumnType)}
	require.Panics(t, func() {
		NewRow([]Value{IntValue(1), IntValue(2)}, cols)
	})
	require.Panics(t, func() {
		NewRow(nil, cols)
	})
}

func TestRowUnwrap(t *testing.T) {
	r := idNameRow()
	values := r.Unwrap()
	require.Equal(t, []Value{IntValue(7), StringValue("ada")}, values)

	partial := idNameRow()
	Take(partial, Int64, "id")
	require.Panics(t, func() {
		partial.Unwrap()
	})
}

func TestRowPlaceRestoresSlot(t *testing.T) {
	r := idNameRow()

	v, _, err := TakeOpt(r, Int32, "name")
	require.Zero(t, v)
	require.Error(t, err)

	// A failed take leaves the slot empty; the error carries the value so
	// the caller can put it back.
	_, ok := r.Value(1)
	require.False(t, ok)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	r.Place(1, convErr.Value)

	name, ok := Get(r, String, "name")
	require.True(t, ok)
	require.Equal(t, "ada", name)
}

func TestRowGetOptConversionFailureLeavesSlot(t *testing.T) {
	r := idNameRow()

	_, ok, err := GetOpt(r, Int32, "name")
	require.False(t, ok)
	require.Error(t, err)

	// Unlike TakeOpt, the value stays in the row.
	name, ok := Get(r, String, "name")
	require.True(t, ok)
	require.Equal(t, "ada", name)
}

func TestRowGetPanicsOnConversionFailure(t *testing.T) {
	r := idNameRow()
	require.Panics(t, func() {
		Get(r, Int32, "name")
	})
}

func TestRowColumnsShared(t *testing.T) {
	cols := []Column{NewColumn("id", IntColumnType)}
	r := NewRow([]Value{IntValue(1)}, cols)
	require.Equal(t, &cols[0], &r.Columns()[0])
}
