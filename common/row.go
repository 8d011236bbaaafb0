package common

import (
	"fmt"
	"strings"
)

// Row is the client side representation of one result set record: a fixed
// length sequence of optional value slots plus the columns shared by every
// row of the result set.
//
// Values can be moved out of a row with Take, which leaves the slot empty.
// Checked accessors report an empty slot as absent; the unchecked
// MustValue forms panic on it. Positions stay stable after a take - the
// row never shrinks.
//
// A Row is not safe for concurrent mutation; Take and Place require the
// caller to have exclusive access to the row instance.
type Row struct {
	values  []Value
	columns []Column
}

// NewRow combines the decoded values of one record with the columns of its
// result set. The column slice is shared, not copied, and must not be
// mutated afterwards. Panics unless len(values) == len(columns); a mismatch
// means the protocol layer mis-decoded the record.
func NewRow(values []Value, columns []Column) *Row {
	if len(values) != len(columns) {
		panic(fmt.Sprintf("row has %d values for %d columns", len(values), len(columns)))
	}
	return &Row{values: values, columns: columns}
}

// Len returns the number of columns in the row.
func (r *Row) Len() int {
	return len(r.values)
}

// Columns returns the shared column metadata. Callers must not mutate it.
func (r *Row) Columns() []Column {
	return r.columns
}

// columnIndex finds the first column whose name matches exactly,
// byte for byte.
func (r *Row) columnIndex(name string) (int, bool) {
	for i := range r.columns {
		if r.columns[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// resolveColumn maps a column selector - a position or a name - to a slot
// index. Selectors of any other type are a programming error.
func (r *Row) resolveColumn(col interface{}) (int, bool) {
	switch c := col.(type) {
	case int:
		if c < 0 || c >= len(r.values) {
			return 0, false
		}
		return c, true
	case string:
		return r.columnIndex(c)
	default:
		panic(fmt.Sprintf("column selector must be an int or a string, got %T", col))
	}
}

// Value returns the value at index i if the index is in range and the slot
// was not taken.
func (r *Row) Value(i int) (Value, bool) {
	if i < 0 || i >= len(r.values) || r.values[i].kind == KindUnknown {
		return Value{}, false
	}
	return r.values[i], true
}

// ValueNamed returns the value of the first column with the given name, if
// one exists and its slot was not taken.
func (r *Row) ValueNamed(name string) (Value, bool) {
	i, ok := r.columnIndex(name)
	if !ok {
		return Value{}, false
	}
	return r.Value(i)
}

// MustValue is the unchecked counterpart of Value: it panics if the slot
// was taken (or i is out of range).
func (r *Row) MustValue(i int) Value {
	if r.values[i].kind == KindUnknown {
		panic(fmt.Sprintf("value at index %d was taken from row %s", i, r))
	}
	return r.values[i]
}

// MustValueNamed is the unchecked counterpart of ValueNamed: it panics if
// no column has the given name or the slot was taken.
func (r *Row) MustValueNamed(name string) Value {
	i, ok := r.columnIndex(name)
	if !ok {
		panic(fmt.Sprintf("no column %q in row %s", name, r))
	}
	return r.MustValue(i)
}

// take moves the value out of slot i, leaving the slot empty.
func (r *Row) take(i int) (Value, bool) {
	v := r.values[i]
	if v.kind == KindUnknown {
		return Value{}, false
	}
	r.values[i] = Value{}
	return v, true
}

// Place puts a value into slot i, making it readable again. It is the
// inverse of a take and is used by row scanning to restore a value whose
// conversion was rolled back.
func (r *Row) Place(i int, v Value) {
	r.values[i] = v
}

// Unwrap consumes the row and returns every value in column order.
//
// Panics if any slot was taken; unwrapping a partially consumed row is a
// programming error, not a data error.
func (r *Row) Unwrap() []Value {
	for i := range r.values {
		if r.values[i].kind == KindUnknown {
			panic(fmt.Sprintf("cannot unwrap row: value at index %d was taken", i))
		}
	}
	values := r.values
	r.values = nil
	return values
}

// String renders each column name with its current value, or a <taken>
// placeholder for emptied slots. Safe on partially consumed rows.
func (r *Row) String() string {
	var sb strings.Builder
	sb.WriteString("row[")
	for i, col := range r.columns {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(col.Name)
		sb.WriteString("=")
		if r.values[i].kind == KindUnknown {
			sb.WriteString("<taken>")
		} else {
			sb.WriteString(r.values[i].String())
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Get reads the value selected by col (a position or a column name),
// leaving the slot intact, and converts it with conv. It reports absent if
// the selector does not resolve or the slot was taken. A failed conversion
// panics; use GetOpt to handle conversion errors.
func Get[T any](r *Row, conv Converter[T], col interface{}) (T, bool) {
	i, ok := r.resolveColumn(col)
	if !ok || r.values[i].kind == KindUnknown {
		var zero T
		return zero, false
	}
	return conv.FromValue(r.values[i]), true
}

// GetOpt is the non-panicking form of Get: a failed conversion is returned
// as an error carrying the untouched value.
func GetOpt[T any](r *Row, conv Converter[T], col interface{}) (T, bool, error) {
	var zero T
	i, ok := r.resolveColumn(col)
	if !ok || r.values[i].kind == KindUnknown {
		return zero, false, nil
	}
	t, err := conv.FromValueOpt(r.values[i])
	if err != nil {
		return zero, false, err
	}
	return t, true, nil
}

// Take moves the value selected by col out of the row and converts it with
// conv, leaving the slot empty. This is the zero-copy path for deriving
// host values from a row. It reports absent if the selector does not
// resolve or the slot was already taken. A failed conversion panics; use
// TakeOpt to handle conversion errors.
func Take[T any](r *Row, conv Converter[T], col interface{}) (T, bool) {
	i, ok := r.resolveColumn(col)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := r.take(i)
	if !ok {
		var zero T
		return zero, false
	}
	return conv.FromValue(v), true
}

// TakeOpt is the non-panicking form of Take. On a failed conversion the
// slot stays empty and the returned error carries the reconstructed value;
// callers that want to keep the row complete can Place it back.
func TakeOpt[T any](r *Row, conv Converter[T], col interface{}) (T, bool, error) {
	var zero T
	i, ok := r.resolveColumn(col)
	if !ok {
		return zero, false, nil
	}
	v, ok := r.take(i)
	if !ok {
		return zero, false, nil
	}
	t, err := conv.FromValueOpt(v)
	if err != nil {
		return zero, false, err
	}
	return t, true, nil
}
