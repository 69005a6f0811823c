package csv

import (
	"context"
	stdcsv "encoding/csv"
	"io"
	"slices"

	csvskema "github.com/reoring/csvskema"
)

// ExtrasAction decides what DictWriter does with record fields that are not
// among its field names.
type ExtrasAction int

const (
	ExtrasRaise  ExtrasAction = iota // fail with unknown_key
	ExtrasIgnore                     // drop the field
)

// DictWriterOptions configures a DictWriter.
type DictWriterOptions struct {
	Dialect      Dialect
	ExtrasAction ExtrasAction
}

// DictWriter writes records in the column order of its own field names, which
// may differ from the model's declaration order. Names the record does not
// have render as empty cells.
type DictWriter[T any] struct {
	w      *stdcsv.Writer
	m      csvskema.Model[T]
	names  []string
	opts   DictWriterOptions
	fields []string
}

// NewDictWriter returns a DictWriter emitting fieldNames columns to w.
func NewDictWriter[T any](w io.Writer, fieldNames []string, m csvskema.Model[T], opts ...DictWriterOptions) *DictWriter[T] {
	var o DictWriterOptions
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	return &DictWriter[T]{
		w:      newEmitter(w, o.Dialect),
		m:      m,
		names:  append([]string(nil), fieldNames...),
		opts:   o,
		fields: m.FieldNames(),
	}
}

// WriteHeader writes the field names as the header row.
func (d *DictWriter[T]) WriteHeader() error { return d.w.Write(d.names) }

// WriteRecord writes an already validated record without re-validating it.
func (d *DictWriter[T]) WriteRecord(ctx context.Context, rec T) error {
	cells, err := d.render(rec)
	if err != nil {
		return err
	}
	return d.w.Write(cells)
}

// WriteMap validates row against the model and writes the normalized values.
// Nothing is written when validation fails.
func (d *DictWriter[T]) WriteMap(ctx context.Context, row map[string]any) error {
	cells, err := d.renderMap(ctx, row)
	if err != nil {
		return err
	}
	return d.w.Write(cells)
}

// WriteRecords writes each record in turn.
func (d *DictWriter[T]) WriteRecords(ctx context.Context, recs []T) error {
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.WriteRecord(ctx, rec); err != nil {
			return atRow(err, i)
		}
	}
	return nil
}

// WriteMaps validates and writes each row in turn. Rows before a failing row
// stay written.
func (d *DictWriter[T]) WriteMaps(ctx context.Context, rows []map[string]any) error {
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.WriteMap(ctx, row); err != nil {
			return atRow(err, i)
		}
	}
	return nil
}

// WriteRecordsAtomic renders every record before writing any of them.
func (d *DictWriter[T]) WriteRecordsAtomic(ctx context.Context, recs []T) error {
	out := make([][]string, 0, len(recs))
	for i, rec := range recs {
		cells, err := d.render(rec)
		if err != nil {
			return atRow(err, i)
		}
		out = append(out, cells)
	}
	return d.writeAll(out)
}

// WriteMapsAtomic validates every row before writing any of them.
func (d *DictWriter[T]) WriteMapsAtomic(ctx context.Context, rows []map[string]any) error {
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells, err := d.renderMap(ctx, row)
		if err != nil {
			return atRow(err, i)
		}
		out = append(out, cells)
	}
	return d.writeAll(out)
}

// Flush writes buffered rows to the underlying writer.
func (d *DictWriter[T]) Flush() error {
	d.w.Flush()
	return d.w.Error()
}

func (d *DictWriter[T]) renderMap(ctx context.Context, row map[string]any) ([]string, error) {
	rec, err := d.m.Parse(ctx, row)
	if err != nil {
		return nil, csvskema.IssuesFromErr("/", err)
	}
	return d.render(rec)
}

func (d *DictWriter[T]) render(rec T) ([]string, error) {
	vals, err := d.m.Values(rec)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]any, len(d.fields))
	for i, k := range d.fields {
		byName[k] = vals[i]
	}
	if d.opts.ExtrasAction == ExtrasRaise {
		var iss csvskema.Issues
		for _, k := range d.fields {
			if !slices.Contains(d.names, k) {
				iss = csvskema.AppendIssues(iss, withHint(csvskema.IssueAt("/"+k, csvskema.CodeUnknownKey, byName[k]), "field is not among the writer's field names"))
			}
		}
		if len(iss) > 0 {
			return nil, iss
		}
	}
	row := make([]any, len(d.names))
	for i, k := range d.names {
		row[i] = byName[k]
	}
	return formatRow(row)
}

func (d *DictWriter[T]) writeAll(rows [][]string) error {
	for _, cells := range rows {
		if err := d.w.Write(cells); err != nil {
			return err
		}
	}
	return nil
}

func withHint(it csvskema.Issue, hint string) csvskema.Issue {
	it.Hint = hint
	return it
}
