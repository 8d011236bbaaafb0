package common

import (
	"fmt"
	"time"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"
)

// Type is the declared MySQL type of a result set column.
type Type int

const (
	TypeUnknown Type = iota
	TypeTinyInt
	TypeSmallInt
	TypeInt
	TypeBigInt
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeVarchar
	TypeVarBinary
	TypeDate
	TypeDatetime
	TypeTimestamp
	TypeTime
)

func (t Type) String() string {
	switch t {
	case TypeTinyInt:
		return "TINYINT"
	case TypeSmallInt:
		return "SMALLINT"
	case TypeInt:
		return "INT"
	case TypeBigInt:
		return "BIGINT"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeDecimal:
		return "DECIMAL"
	case TypeVarchar:
		return "VARCHAR"
	case TypeVarBinary:
		return "VARBINARY"
	case TypeDate:
		return "DATE"
	case TypeDatetime:
		return "DATETIME"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeTime:
		return "TIME"
	default:
		return "UNKNOWN"
	}
}

var (
	TinyIntColumnType   = ColumnType{Type: TypeTinyInt}
	SmallIntColumnType  = ColumnType{Type: TypeSmallInt}
	IntColumnType       = ColumnType{Type: TypeInt}
	BigIntColumnType    = ColumnType{Type: TypeBigInt}
	FloatColumnType     = ColumnType{Type: TypeFloat}
	DoubleColumnType    = ColumnType{Type: TypeDouble}
	VarcharColumnType   = ColumnType{Type: TypeVarchar}
	VarBinaryColumnType = ColumnType{Type: TypeVarBinary}
	DateColumnType      = ColumnType{Type: TypeDate}
	DatetimeColumnType  = ColumnType{Type: TypeDatetime}
	TimestampColumnType = ColumnType{Type: TypeTimestamp}
	TimeColumnType      = ColumnType{Type: TypeTime}
	UnknownColumnType   = ColumnType{Type: TypeUnknown}
)

func NewDecimalColumnType(precision int, scale int) ColumnType {
	return ColumnType{
		Type:         TypeDecimal,
		DecPrecision: precision,
		DecScale:     scale,
	}
}

// ColumnType carries the declared type of a column plus its type
// parameters.
type ColumnType struct {
	Type         Type
	Unsigned     bool
	DecPrecision int
	DecScale     int
}

// Column is the per-query metadata for one row position. A result set
// decodes its columns once and every row shares the same slice, so Column
// values must not be mutated after construction.
type Column struct {
	Name string
	ColumnType
}

func NewColumn(name string, columnType ColumnType) Column {
	return Column{Name: name, ColumnType: columnType}
}

func (c Column) String() string {
	return fmt.Sprintf("column[name=%s,type=%s]", c.Name, c.Type)
}

// InferColumnType from a Go value.
func InferColumnType(value interface{}) ColumnType {
	switch value.(type) {
	case string:
		return VarcharColumnType
	case []byte:
		return VarBinaryColumnType
	case int, int64, uint, uint64:
		return BigIntColumnType
	case int16, int32, uint16, uint32:
		return IntColumnType
	case int8, uint8, bool:
		return TinyIntColumnType
	case float32, float64:
		return DoubleColumnType
	case decimal.Decimal:
		return ColumnTypesByType[TypeDecimal]
	case civil.Date:
		return DateColumnType
	case civil.DateTime:
		return DatetimeColumnType
	case time.Time:
		return TimestampColumnType
	case time.Duration, civil.Time:
		return TimeColumnType
	default:
		panic(fmt.Sprintf("can't infer column of type %T", value))
	}
}

// ColumnTypesByType allows lookup of non-parameterised ColumnType by Type.
var ColumnTypesByType = map[Type]ColumnType{
	TypeTinyInt:   TinyIntColumnType,
	TypeSmallInt:  SmallIntColumnType,
	TypeInt:       IntColumnType,
	TypeBigInt:    BigIntColumnType,
	TypeFloat:     FloatColumnType,
	TypeDouble:    DoubleColumnType,
	TypeDecimal:   {Type: TypeDecimal},
	TypeVarchar:   VarcharColumnType,
	TypeVarBinary: VarBinaryColumnType,
	TypeDate:      DateColumnType,
	TypeDatetime:  DatetimeColumnType,
	TypeTimestamp: TimestampColumnType,
	TypeTime:      TimeColumnType,
}
