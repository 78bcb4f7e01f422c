package flux

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"

	"influxstream/lib/value"
)

func TestParseDataTypeRoundTrip(t *testing.T) {
	types := []DataType{
		TypeString, TypeDouble, TypeBool, TypeLong,
		TypeUnsignedLong, TypeDuration, TypeBinary, TypeTime,
	}
	for _, dt := range types {
		parsed, err := ParseDataType(dt.String())
		assert.NoError(t, err)
		assert.Equal(t, dt, parsed)
	}
}

func TestParseDataTypeNanoAlias(t *testing.T) {
	dt, err := ParseDataType("dateTime:RFC3339Nano")
	assert.NoError(t, err)
	assert.Equal(t, TypeTime, dt)
}

func TestParseDataTypeUnknown(t *testing.T) {
	_, err := ParseDataType("tinyint")
	var ue *UnknownDataTypeError
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, "tinyint", ue.Text)
}

func TestTableMetadataColumn(t *testing.T) {
	tm := NewTableMetadata(3, 2)
	assert.Equal(t, 3, tm.Position)
	assert.Len(t, tm.Columns, 2)
	// zero columns: no name, string type
	assert.Equal(t, "", tm.Columns[0].Name)
	assert.Equal(t, TypeString, tm.Columns[0].DataType)

	tm.Columns[0].Name = "host"
	tm.Columns[1].Name = "usage"
	tm.Columns[1].DataType = TypeDouble

	col, ok := tm.Column("usage")
	assert.True(t, ok)
	assert.Equal(t, TypeDouble, col.DataType)

	_, ok = tm.Column("missing")
	assert.False(t, ok)
}

func TestRecordGetters(t *testing.T) {
	now := time.Now()
	r := Record{
		Table: 1,
		Values: map[string]value.Value{
			"_time":        value.NewTime(now),
			"_measurement": value.String("cpu"),
			"_field":       value.String("usage"),
			"_value":       value.Double(0.64),
			"count":        value.Long(10),
			"ok":           value.Bool(true),
			"gap":          value.Nil,
		},
	}

	ts, ok := r.Time()
	assert.True(t, ok)
	assert.True(t, now.Equal(ts))

	m, ok := r.Measurement()
	assert.True(t, ok)
	assert.Equal(t, "cpu", m)

	f, ok := r.Field()
	assert.True(t, ok)
	assert.Equal(t, "usage", f)

	assert.True(t, r.Value().Equal(value.Double(0.64)))

	n, ok := r.GetLong("count")
	assert.True(t, ok)
	assert.Equal(t, int64(10), n)

	b, ok := r.GetBool("ok")
	assert.True(t, ok)
	assert.True(t, b)

	// wrong type and absent column both read as "no value", not a panic
	_, ok = r.GetString("count")
	assert.False(t, ok)
	_, ok = r.GetDouble("nope")
	assert.False(t, ok)
	_, ok = r.GetLong("gap")
	assert.False(t, ok)
	assert.Nil(t, r.Get("nope"))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t,
		"column count mismatch: expected 2, got 3",
		(&ColumnMismatchError{Expected: 2, Actual: 3}).Error())
	assert.Equal(t,
		"unknown data type: blob",
		(&UnknownDataTypeError{Text: "blob"}).Error())
	assert.Equal(t,
		"missing annotation: #datatype annotation not found",
		(&MissingAnnotationError{Context: "#datatype annotation not found"}).Error())
	assert.Equal(t,
		"invalid first cell: junk",
		(&InvalidFirstCellError{Text: "junk"}).Error())

	qe := &QueryError{Message: "bucket not found", Reference: mo.Some("ref-123")}
	assert.Equal(t, "query error: bucket not found (reference ref-123)", qe.Error())
	qe = &QueryError{Message: "bucket not found", Reference: mo.None[string]()}
	assert.Equal(t, "query error: bucket not found", qe.Error())
}

func TestRowSourceErrorUnwrap(t *testing.T) {
	e := &RowSourceError{Err: io.ErrUnexpectedEOF}
	assert.True(t, errors.Is(e, io.ErrUnexpectedEOF))
}
