// Package parser decodes the annotated CSV format returned by the InfluxDB
// 2.x /api/v2/query endpoint, one record at a time, without materializing
// the response in memory.
package parser

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/samber/mo"

	"influxstream/lib/flux"
	"influxstream/lib/value"
)

// parsingState tracks where the decoder is inside the current table block.
//
// State transitions:
//
//	stateNormal -> stateAnnotation (first # row of a new table)
//	stateAnnotation -> stateNormal (header row consumed)
//	stateAnnotation -> stateError  (header row names an error table)
//	stateError -> (terminates with *flux.QueryError)
type parsingState uint8

const (
	stateNormal parsingState = iota
	stateAnnotation
	stateError
)

// Parser is a pull-based streaming decoder over one response body. It keeps
// only the currently open table's metadata plus a handful of scalars, so
// memory stays O(columns) regardless of row count. A Parser owns its state
// exclusively and must not be shared across goroutines; independent parsers
// over independent streams need no coordination.
type Parser struct {
	csv           *csv.Reader
	tablePosition int
	table         *flux.TableMetadata
	state         parsingState
	datatypeFound bool
}

// NewParser wraps a response body in a streaming decoder. The CSV reader is
// flexible on field count (the decoder validates counts itself against the
// active table) and every cell is whitespace-trimmed.
func NewParser(r io.Reader) *Parser {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Parser{csv: cr, state: stateNormal}
}

// Next pulls rows until it can emit one decoded record.
//
// Returns:
//   - (record, nil) — one decoded data row
//   - (nil, nil)    — clean end of stream
//   - (nil, err)    — decode failed; the error is terminal and no further
//     records can be pulled
func (p *Parser) Next() (*flux.Record, error) {
	for {
		row, err := p.csv.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, &flux.RowSourceError{Err: err}
		}
		trimFields(row)

		// blank separator rows carry no state change
		if len(row) <= 1 {
			continue
		}

		p.maybeOpenTable(row)

		if p.table == nil {
			return nil, &flux.MissingAnnotationError{Context: "no annotations found before data"}
		}
		if len(row)-1 != len(p.table.Columns) {
			return nil, &flux.ColumnMismatchError{
				Expected: len(p.table.Columns),
				Actual:   len(row) - 1,
			}
		}

		rec, err := p.processRow(row)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
}

// maybeOpenTable starts a new table block when a # row arrives in normal
// state. Annotation rows inside an already-open block leave the table as is.
func (p *Parser) maybeOpenTable(row []string) {
	first := row[0]
	if first == "" || !strings.HasPrefix(first, "#") || p.state != stateNormal {
		return
	}
	p.table = flux.NewTableMetadata(p.tablePosition, len(row)-1)
	p.tablePosition++
	p.state = stateAnnotation
	p.datatypeFound = false
}

// processRow dispatches one row on its first cell. A nil record with nil
// error means "row consumed, keep pulling".
func (p *Parser) processRow(row []string) (*flux.Record, error) {
	switch first := row[0]; first {
	case "":
		return p.processEmptyFirstCell(row)
	case "#datatype":
		return nil, p.processDatatypeAnnotation(row)
	case "#group":
		p.processGroupAnnotation(row)
		return nil, nil
	case "#default":
		p.processDefaultAnnotation(row)
		return nil, nil
	default:
		return nil, &flux.InvalidFirstCellError{Text: first}
	}
}

// processEmptyFirstCell handles header, error, and data rows, which all
// share an empty first cell and are told apart by the current state.
func (p *Parser) processEmptyFirstCell(row []string) (*flux.Record, error) {
	switch p.state {
	case stateAnnotation:
		return nil, p.processHeaderRow(row)
	case stateError:
		return nil, parseErrorRow(row)
	default:
		return p.parseDataRow(row)
	}
}

// processHeaderRow fills in column names, or flips to the error state when
// the table turns out to carry an in-band error instead of data.
func (p *Parser) processHeaderRow(row []string) error {
	if !p.datatypeFound {
		return &flux.MissingAnnotationError{Context: "#datatype annotation not found"}
	}
	if row[1] == "error" {
		p.state = stateError
		return nil
	}
	for i := 1; i < len(row); i++ {
		p.table.Columns[i-1].Name = row[i]
	}
	p.state = stateNormal
	return nil
}

// parseErrorRow turns the single data row of an error table into the
// terminal in-band error.
func parseErrorRow(row []string) error {
	message := "unknown query error"
	if row[1] != "" {
		message = row[1]
	}
	reference := mo.None[string]()
	if len(row) > 2 && row[2] != "" {
		reference = mo.Some(row[2])
	}
	return &flux.QueryError{Message: message, Reference: reference}
}

// parseDataRow coerces one data row against the active table's columns,
// substituting each column's declared default for empty cells.
func (p *Parser) parseDataRow(row []string) (*flux.Record, error) {
	values := make(map[string]value.Value, len(row)-1)
	for i := 1; i < len(row); i++ {
		col := &p.table.Columns[i-1]
		raw := row[i]
		if raw == "" {
			raw = col.DefaultValue
		}
		v, err := parseValue(raw, col.DataType, col.Name)
		if err != nil {
			return nil, err
		}
		values[col.Name] = v
	}
	return &flux.Record{Table: p.table.Position, Values: values}, nil
}

func (p *Parser) processDatatypeAnnotation(row []string) error {
	p.datatypeFound = true
	for i := 1; i < len(row); i++ {
		dt, err := flux.ParseDataType(row[i])
		if err != nil {
			return err
		}
		p.table.Columns[i-1].DataType = dt
	}
	return nil
}

func (p *Parser) processGroupAnnotation(row []string) {
	for i := 1; i < len(row); i++ {
		p.table.Columns[i-1].IsGroupKey = row[i] == "true"
	}
}

func (p *Parser) processDefaultAnnotation(row []string) {
	for i := 1; i < len(row); i++ {
		p.table.Columns[i-1].DefaultValue = row[i]
	}
}

func trimFields(row []string) {
	for i, cell := range row {
		row[i] = strings.TrimSpace(cell)
	}
}
