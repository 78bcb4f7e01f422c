package flux

import (
	"time"

	"github.com/samber/lo"

	"influxstream/lib/value"
)

// Column describes one column of a result table. Columns start with an empty
// name and TypeString and are filled in field by field as annotation rows
// arrive; they are not mutated once the header row has been processed.
type Column struct {
	Name         string
	DataType     DataType
	IsGroupKey   bool
	DefaultValue string
}

// TableMetadata describes one table block of the response. Position counts
// tables as they appear in the stream, independent of any table index the
// server reports inside the payload.
type TableMetadata struct {
	Position int
	Columns  []Column
}

// NewTableMetadata allocates metadata for a table with ncols columns, each
// with the zero column defaults (name "", TypeString, not grouped, default "").
func NewTableMetadata(position, ncols int) *TableMetadata {
	return &TableMetadata{
		Position: position,
		Columns:  make([]Column, ncols),
	}
}

// Column looks up a column by name.
func (t *TableMetadata) Column(name string) (Column, bool) {
	return lo.Find(t.Columns, func(c Column) bool { return c.Name == name })
}

// Record is one fully decoded data row. Table is the position of the owning
// table; Values maps column name to coerced value. Records are immutable
// once emitted.
type Record struct {
	Table  int
	Values map[string]value.Value
}

// Get returns the raw value for a column, or nil if the record has no such
// column.
func (r Record) Get(name string) value.Value {
	return r.Values[name]
}

func (r Record) GetString(name string) (string, bool) {
	return value.AsString(r.Values[name])
}

func (r Record) GetDouble(name string) (float64, bool) {
	return value.AsDouble(r.Values[name])
}

func (r Record) GetLong(name string) (int64, bool) {
	return value.AsLong(r.Values[name])
}

func (r Record) GetBool(name string) (bool, bool) {
	return value.AsBool(r.Values[name])
}

// Time returns the timestamp carried by the conventional _time column.
func (r Record) Time() (time.Time, bool) {
	return value.AsTime(r.Values["_time"])
}

// Measurement returns the series name carried by the conventional
// _measurement column.
func (r Record) Measurement() (string, bool) {
	return r.GetString("_measurement")
}

// Field returns the field name carried by the conventional _field column.
func (r Record) Field() (string, bool) {
	return r.GetString("_field")
}

// Value returns the field value carried by the conventional _value column.
func (r Record) Value() value.Value {
	return r.Values["_value"]
}
