package csv

import (
	"context"
	stdcsv "encoding/csv"
	"io"
	"iter"

	csvskema "github.com/reoring/csvskema"
)

// Reader yields the header row once and then one validated row per Read.
type Reader[T any] struct {
	r          *stdcsv.Reader
	m          csvskema.Model[T]
	d          Dialect
	names      []string
	header     []string
	headerDone bool
	line       int
}

// NewReader returns a Reader validating rows of r against m. Cells are bound
// to m.FieldNames() by position, not by header name.
func NewReader[T any](r io.Reader, m csvskema.Model[T], d ...Dialect) *Reader[T] {
	dl := dialectOf(d)
	return &Reader[T]{r: newTokenizer(r, dl), m: m, d: dl, names: m.FieldNames()}
}

// Dialect returns the dialect the reader was built with.
func (r *Reader[T]) Dialect() Dialect { return r.d }

// Line returns the input line on which the last returned row started.
func (r *Reader[T]) Line() int { return r.line }

// Header returns the raw header cells, or nil before the first Read.
func (r *Reader[T]) Header() []string { return r.header }

func (r *Reader[T]) next(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cells, err := r.r.Read()
	if err != nil {
		return nil, err
	}
	r.line, _ = r.r.FieldPos(0)
	return cells, nil
}

// Read returns the raw header cells on the first call and afterwards the
// validated values of the next row in field order. It returns io.EOF at the
// end of input and csvskema.Issues for a row that fails validation.
func (r *Reader[T]) Read(ctx context.Context) ([]any, error) {
	if !r.headerDone {
		cells, err := r.readHeader(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(cells))
		for i, c := range cells {
			out[i] = c
		}
		return out, nil
	}
	rec, err := r.readRecord(ctx)
	if err != nil {
		return nil, err
	}
	return r.m.Values(rec)
}

// ReadRecord returns the next validated record, consuming the header first if
// Read has not done so yet.
func (r *Reader[T]) ReadRecord(ctx context.Context) (T, error) {
	if !r.headerDone {
		if _, err := r.readHeader(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return r.readRecord(ctx)
}

func (r *Reader[T]) readHeader(ctx context.Context) ([]string, error) {
	cells, err := r.next(ctx)
	if err != nil {
		return nil, err
	}
	r.headerDone = true
	r.header = cells
	return cells, nil
}

func (r *Reader[T]) readRecord(ctx context.Context) (T, error) {
	var zero T
	cells, err := r.next(ctx)
	if err != nil {
		return zero, err
	}
	rec, err := r.m.Parse(ctx, zip(r.names, cells))
	if err != nil {
		return zero, csvskema.IssuesFromErr("/", err).AtLine(r.line)
	}
	return rec, nil
}

// All returns the rows Read would produce, header first. The sequence is
// forward-only and stops after the first error.
func (r *Reader[T]) All(ctx context.Context) iter.Seq2[[]any, error] {
	return func(yield func([]any, error) bool) {
		for {
			row, err := r.Read(ctx)
			if err == io.EOF {
				return
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// Records returns the remaining data rows as typed records.
func (r *Reader[T]) Records(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			rec, err := r.ReadRecord(ctx)
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}
