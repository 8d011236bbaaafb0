package common

import (
	"reflect"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ScanStruct moves the values of a row into the exported fields of the
// struct pointed to by dest. Fields are matched to columns by their
// `db:"..."` tag, or by a case-insensitive name match when untagged; a
// `db:"-"` tag and fields with no matching column are skipped.
//
// Matched values are taken out of the row (no copy). If a value cannot be
// converted to its field's type it is placed back into the row, so the row
// is left intact apart from the fields scanned before the failure, and the
// returned error names the column and the target type.
func ScanStruct(r *Row, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.Errorf("scan destination must be a non-nil struct pointer, got %T", dest)
	}
	sv := rv.Elem()
	t := sv.Type()
	log.Tracef("scanning row into %s", t)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		ci, ok := matchColumn(r.columns, f)
		if !ok {
			continue
		}
		v, ok := r.take(ci)
		if !ok {
			return errors.Errorf("column %q was already taken from row", r.columns[ci].Name)
		}
		if err := assignValue(sv.Field(i), v); err != nil {
			restored := v
			var convErr *ConversionError
			if errors.As(err, &convErr) {
				restored = convErr.Value
			}
			r.Place(ci, restored)
			return errors.Wrapf(err, "column %q cannot scan into field %s (%s)",
				r.columns[ci].Name, f.Name, f.Type)
		}
	}
	return nil
}

// matchColumn finds the column for a struct field: an exact match on the db
// tag, or a case-insensitive ASCII match on the field name.
func matchColumn(columns []Column, f reflect.StructField) (int, bool) {
	if tag, ok := f.Tag.Lookup("db"); ok {
		if tag == "-" {
			return 0, false
		}
		for i := range columns {
			if columns[i].Name == tag {
				return i, true
			}
		}
		return 0, false
	}
	for i := range columns {
		if equalFoldASCII(columns[i].Name, f.Name) {
			return i, true
		}
	}
	return 0, false
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

var (
	valueType     = reflect.TypeOf(Value{})
	bytesType     = reflect.TypeOf([]byte(nil))
	timeType      = reflect.TypeOf(time.Time{})
	durationType  = reflect.TypeOf(time.Duration(0))
	civilDateType = reflect.TypeOf(civil.Date{})
	civilDTType   = reflect.TypeOf(civil.DateTime{})
	civilTimeType = reflect.TypeOf(civil.Time{})
	uuidType      = reflect.TypeOf(uuid.UUID{})
	decimalType   = reflect.TypeOf(decimal.Decimal{})
)

// assignValue converts v for one destination field. Pointer fields model
// nullable columns: NULL assigns nil, anything else allocates and converts
// into the pointee.
func assignValue(fv reflect.Value, v Value) error {
	switch fv.Type() {
	case valueType:
		fv.Set(reflect.ValueOf(v))
		return nil
	case bytesType:
		return setConverted(fv, Bytes, v)
	case timeType:
		return setConverted(fv, Timestamp, v)
	case durationType:
		return setConverted(fv, Duration, v)
	case civilDateType:
		return setConverted(fv, Date, v)
	case civilDTType:
		return setConverted(fv, LocalDateTime, v)
	case civilTimeType:
		return setConverted(fv, TimeOfDay, v)
	case uuidType:
		return setConverted(fv, UUID, v)
	case decimalType:
		return setConverted(fv, Decimal, v)
	}
	switch fv.Kind() {
	case reflect.Ptr:
		if v.IsNull() {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		p := reflect.New(fv.Type().Elem())
		if err := assignValue(p.Elem(), v); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	case reflect.Bool:
		b, err := Bool.FromValueOpt(v)
		if err != nil {
			return err
		}
		fv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := fv.Type().Bits()
		min := int64(-1) << (bits - 1)
		max := int64(1)<<(bits-1) - 1
		x, err := signedConverter[int64](min, max).FromValueOpt(v)
		if err != nil {
			return err
		}
		fv.SetInt(x)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits := fv.Type().Bits()
		max := uint64(1)<<bits - 1 // shift of 64 wraps to 0, giving MaxUint64
		x, err := unsignedConverter[uint64](max).FromValueOpt(v)
		if err != nil {
			return err
		}
		fv.SetUint(x)
		return nil
	case reflect.Float32:
		x, err := Float32.FromValueOpt(v)
		if err != nil {
			return err
		}
		fv.SetFloat(float64(x))
		return nil
	case reflect.Float64:
		x, err := Float64.FromValueOpt(v)
		if err != nil {
			return err
		}
		fv.SetFloat(x)
		return nil
	case reflect.String:
		s, err := String.FromValueOpt(v)
		if err != nil {
			return err
		}
		fv.SetString(s)
		return nil
	}
	return errors.Errorf("unsupported destination type %s", fv.Type())
}

func setConverted[T any](fv reflect.Value, conv Converter[T], v Value) error {
	t, err := conv.FromValueOpt(v)
	if err != nil {
		return err
	}
	fv.Set(reflect.ValueOf(t))
	return nil
}
