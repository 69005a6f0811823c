package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"io"

	csvskema "github.com/reoring/csvskema"
)

// Writer emits rows in model field order.
//
// WriteRecords and WriteRaws write row by row: when a later row fails, the
// earlier rows have already been handed to the sink. Use the Atomic variants
// when a batch must be written completely or not at all.
type Writer[T any] struct {
	w     *stdcsv.Writer
	m     csvskema.Model[T]
	d     Dialect
	names []string
}

// NewWriter returns a Writer emitting to w.
func NewWriter[T any](w io.Writer, m csvskema.Model[T], d ...Dialect) *Writer[T] {
	dl := dialectOf(d)
	return &Writer[T]{w: newEmitter(w, dl), m: m, d: dl, names: m.FieldNames()}
}

// Dialect returns the dialect the writer was built with.
func (w *Writer[T]) Dialect() Dialect { return w.d }

// WriteHeader writes the model's field names.
func (w *Writer[T]) WriteHeader() error { return w.w.Write(w.names) }

// WriteHeaderRow writes cells verbatim without validation.
func (w *Writer[T]) WriteHeaderRow(cells []string) error { return w.w.Write(cells) }

// WriteRecord writes an already validated record without re-validating it.
func (w *Writer[T]) WriteRecord(ctx context.Context, rec T) error {
	cells, err := w.renderRecord(rec)
	if err != nil {
		return err
	}
	return w.w.Write(cells)
}

// WriteRaw binds values positionally onto the field names, validates them and
// writes the normalized row. Nothing is written when validation fails.
func (w *Writer[T]) WriteRaw(ctx context.Context, values []any) error {
	cells, err := w.renderRaw(ctx, values)
	if err != nil {
		return err
	}
	return w.w.Write(cells)
}

// WriteRecords writes each record in turn.
func (w *Writer[T]) WriteRecords(ctx context.Context, recs []T) error {
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.WriteRecord(ctx, rec); err != nil {
			return atRow(err, i)
		}
	}
	return nil
}

// WriteRaws validates and writes each raw row in turn. Rows before a failing
// row stay written.
func (w *Writer[T]) WriteRaws(ctx context.Context, rows [][]any) error {
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.WriteRaw(ctx, row); err != nil {
			return atRow(err, i)
		}
	}
	return nil
}

// WriteRecordsAtomic renders every record before writing any of them.
func (w *Writer[T]) WriteRecordsAtomic(ctx context.Context, recs []T) error {
	out := make([][]string, 0, len(recs))
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells, err := w.renderRecord(rec)
		if err != nil {
			return atRow(err, i)
		}
		out = append(out, cells)
	}
	return w.writeAll(out)
}

// WriteRawsAtomic validates every row before writing any of them.
func (w *Writer[T]) WriteRawsAtomic(ctx context.Context, rows [][]any) error {
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells, err := w.renderRaw(ctx, row)
		if err != nil {
			return atRow(err, i)
		}
		out = append(out, cells)
	}
	return w.writeAll(out)
}

// Flush writes buffered rows to the underlying writer.
func (w *Writer[T]) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

func (w *Writer[T]) renderRecord(rec T) ([]string, error) {
	vals, err := w.m.Values(rec)
	if err != nil {
		return nil, err
	}
	return formatRow(vals)
}

func (w *Writer[T]) renderRaw(ctx context.Context, values []any) ([]string, error) {
	rec, err := w.m.Parse(ctx, zip(w.names, values))
	if err != nil {
		return nil, csvskema.IssuesFromErr("/", err)
	}
	return w.renderRecord(rec)
}

func (w *Writer[T]) writeAll(rows [][]string) error {
	for _, cells := range rows {
		if err := w.w.Write(cells); err != nil {
			return err
		}
	}
	return nil
}

// atRow tags batch errors with the 1-based position of the failing row:
// issues get it as Line, other errors are wrapped.
func atRow(err error, i int) error {
	if iss, ok := csvskema.AsIssues(err); ok {
		return iss.AtLine(i + 1)
	}
	return fmt.Errorf("csv: row %d: %w", i+1, err)
}
