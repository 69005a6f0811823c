// Package csv binds csvskema models to comma-separated text.
//
// Reader and DictReader wrap encoding/csv and validate every data row against
// a csvskema.Model; Writer and DictWriter validate raw input before anything
// reaches the sink. Quoting and escaping are left to encoding/csv entirely and
// are configured through Dialect.
//
// Adapters are single-owner values and are not safe for concurrent use.
package csv

import (
	stdcsv "encoding/csv"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Dialect is passed through to the encoding/csv reader and writer.
// The zero value reads and writes RFC 4180 with a comma delimiter.
type Dialect struct {
	// Comma is the field delimiter (',' when zero).
	Comma rune
	// Comment, if not 0, marks lines to skip when reading.
	Comment rune
	// LazyQuotes allows a quote in an unquoted field and a non-doubled quote in a quoted field.
	LazyQuotes bool
	// TrimLeadingSpace ignores leading white space in a field when reading.
	TrimLeadingSpace bool
	// UseCRLF terminates written lines with \r\n.
	UseCRLF bool
	// StrictFieldCount makes the reader reject rows whose cell count differs
	// from the first row. Rows are lenient by default: short rows leave fields
	// unbound and long rows overflow.
	StrictFieldCount bool
	// KeepBOM disables stripping a leading byte order mark from the input.
	KeepBOM bool
}

// dialectOf picks the last supplied dialect (zero value when none).
func dialectOf(ds []Dialect) Dialect {
	var d Dialect
	if len(ds) > 0 {
		d = ds[len(ds)-1]
	}
	return d
}

func (d Dialect) comma() rune {
	if d.Comma == 0 {
		return ','
	}
	return d.Comma
}

// newTokenizer configures an encoding/csv reader for d. A UTF-8 or UTF-16
// byte order mark is consumed (and UTF-16 decoded) unless KeepBOM is set.
func newTokenizer(r io.Reader, d Dialect) *stdcsv.Reader {
	if !d.KeepBOM {
		r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	}
	cr := stdcsv.NewReader(r)
	cr.Comma = d.comma()
	cr.Comment = d.Comment
	cr.LazyQuotes = d.LazyQuotes
	cr.TrimLeadingSpace = d.TrimLeadingSpace
	if !d.StrictFieldCount {
		cr.FieldsPerRecord = -1
	}
	return cr
}

func newEmitter(w io.Writer, d Dialect) *stdcsv.Writer {
	cw := stdcsv.NewWriter(w)
	cw.Comma = d.comma()
	cw.UseCRLF = d.UseCRLF
	return cw
}

// zip binds cells positionally onto names. Extra cells are dropped and
// missing cells leave their names unbound.
func zip[C any](names []string, cells []C) map[string]any {
	row := make(map[string]any, len(names))
	for i, name := range names {
		if i >= len(cells) {
			break
		}
		row[name] = cells[i]
	}
	return row
}
