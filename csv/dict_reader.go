package csv

import (
	"context"
	stdcsv "encoding/csv"
	"io"
	"iter"

	csvskema "github.com/reoring/csvskema"
)

// DictOptions configures a DictReader.
type DictOptions struct {
	// FieldNames names the columns. When empty, the first row of the input is used.
	FieldNames []string
	// RestKey receives cells beyond FieldNames as a []string. Overflow is
	// dropped when RestKey is empty.
	RestKey string
	Dialect Dialect
}

// DictReader reads rows keyed by column name and validates them against a model.
type DictReader[T any] struct {
	r     *stdcsv.Reader
	m     csvskema.Model[T]
	opts  DictOptions
	names []string
	line  int
}

// NewDictReader returns a DictReader over r. Columns are matched to model
// fields by name; columns the model does not declare are handled by the
// model's unknown-key policy.
func NewDictReader[T any](r io.Reader, m csvskema.Model[T], opts ...DictOptions) *DictReader[T] {
	var o DictOptions
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	return &DictReader[T]{r: newTokenizer(r, o.Dialect), m: m, opts: o, names: append([]string(nil), o.FieldNames...)}
}

// Dialect returns the dialect the reader was built with.
func (d *DictReader[T]) Dialect() Dialect { return d.opts.Dialect }

// Line returns the input line on which the last returned row started.
func (d *DictReader[T]) Line() int { return d.line }

// FieldNames returns the column names, reading the header row if needed.
func (d *DictReader[T]) FieldNames() ([]string, error) {
	if len(d.names) > 0 {
		return d.names, nil
	}
	cells, err := d.r.Read()
	if err != nil {
		return nil, err
	}
	d.line, _ = d.r.FieldPos(0)
	d.names = cells
	return d.names, nil
}

// readRaw returns the next row keyed by column name plus its overflow cells.
func (d *DictReader[T]) readRaw(ctx context.Context) (map[string]any, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	names, err := d.FieldNames()
	if err != nil {
		return nil, nil, err
	}
	cells, err := d.r.Read()
	if err != nil {
		return nil, nil, err
	}
	d.line, _ = d.r.FieldPos(0)
	var rest []string
	if len(cells) > len(names) {
		rest = cells[len(names):]
	}
	return zip(names, cells), rest, nil
}

func (d *DictReader[T]) parse(ctx context.Context, raw map[string]any) (T, error) {
	rec, err := d.m.Parse(ctx, raw)
	if err != nil {
		var zero T
		return zero, csvskema.IssuesFromErr("/", err).AtLine(d.line)
	}
	return rec, nil
}

// Read returns the next row as normalized values keyed by the model's field
// names. Overflow cells are added under RestKey when it is set.
func (d *DictReader[T]) Read(ctx context.Context) (map[string]any, error) {
	raw, rest, err := d.readRaw(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := d.parse(ctx, raw)
	if err != nil {
		return nil, err
	}
	vals, err := d.m.Values(rec)
	if err != nil {
		return nil, err
	}
	fields := d.m.FieldNames()
	out := make(map[string]any, len(fields)+1)
	for i, k := range fields {
		out[k] = vals[i]
	}
	if d.opts.RestKey != "" && len(rest) > 0 {
		out[d.opts.RestKey] = rest
	}
	return out, nil
}

// ReadRecord returns the next row as a typed record. Overflow cells are not
// part of the record and are discarded.
func (d *DictReader[T]) ReadRecord(ctx context.Context) (T, error) {
	raw, _, err := d.readRaw(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return d.parse(ctx, raw)
}

// All returns the remaining rows as Read would. It stops after the first error.
func (d *DictReader[T]) All(ctx context.Context) iter.Seq2[map[string]any, error] {
	return func(yield func(map[string]any, error) bool) {
		for {
			row, err := d.Read(ctx)
			if err == io.EOF {
				return
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// Records returns the remaining rows as typed records.
func (d *DictReader[T]) Records(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			rec, err := d.ReadRecord(ctx)
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}
