package csv

import (
	"bytes"
	"context"
	"fmt"
	"os"

	csvskema "github.com/reoring/csvskema"
)

// Save writes records to path with a header taken from m.FieldNames(). The
// whole content is rendered first, so an invalid record leaves path untouched.
func Save[T any](ctx context.Context, path string, m csvskema.Model[T], records []T, d ...Dialect) error {
	var buf bytes.Buffer
	w := NewDictWriter[T](&buf, m.FieldNames(), m, DictWriterOptions{Dialect: dialectOf(d)})
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteRecordsAtomic(ctx, records); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("csv: write %s: %w", path, err)
	}
	return f.Close()
}

// Load reads every row of path, header first, into records of m.
func Load[T any](ctx context.Context, path string, m csvskema.Model[T], d ...Dialect) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close()

	r := NewDictReader[T](f, m, DictOptions{Dialect: dialectOf(d)})
	var out []T
	for rec, err := range r.Records(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadResult carries the outcome of LoadAsync.
type LoadResult[T any] struct {
	Records []T
	Err     error
}

// SaveAsync runs Save on its own goroutine. The channel receives exactly one
// value and is then closed.
func SaveAsync[T any](ctx context.Context, path string, m csvskema.Model[T], records []T, d ...Dialect) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- Save(ctx, path, m, records, d...)
	}()
	return done
}

// LoadAsync runs Load on its own goroutine. The channel receives exactly one
// value and is then closed.
func LoadAsync[T any](ctx context.Context, path string, m csvskema.Model[T], d ...Dialect) <-chan LoadResult[T] {
	done := make(chan LoadResult[T], 1)
	go func() {
		defer close(done)
		recs, err := Load(ctx, path, m, d...)
		done <- LoadResult[T]{Records: recs, Err: err}
	}()
	return done
}
