// Package contract loads declarative column contracts from YAML or JSON and
// compiles them into dsl object models usable with the csv adapters.
//
// A contract lists columns in order:
//
//	name: users
//	unknown: strict
//	dialect:
//	  delimiter: ";"
//	fields:
//	  - {name: id, type: lenient_int, required: true}
//	  - {name: name, type: string, required: true}
//	  - {name: gender, type: enum, enum: [male, female, others], nullable: true}
//	  - {name: created, type: utc_time, timezone: permissive}
package contract

import (
	"fmt"
	"unicode/utf8"

	"github.com/reoring/csvskema/csv"
)

// Contract describes the columns of one CSV layout.
type Contract struct {
	Name string `yaml:"name" json:"name"`
	// Unknown is strict (default), strip or passthrough.
	Unknown string `yaml:"unknown" json:"unknown"`
	// Extras names the map that receives unknown columns under passthrough.
	Extras string `yaml:"extras" json:"extras"`
	// RestKey receives overflow cells when reading keyed rows.
	RestKey string      `yaml:"restKey" json:"restKey"`
	Dialect DialectSpec `yaml:"dialect" json:"dialect"`
	Fields  []Field     `yaml:"fields" json:"fields"`
}

// DialectSpec is the serializable form of csv.Dialect.
type DialectSpec struct {
	Delimiter        string `yaml:"delimiter" json:"delimiter"`
	Comment          string `yaml:"comment" json:"comment"`
	LazyQuotes       bool   `yaml:"lazyQuotes" json:"lazyQuotes"`
	TrimLeadingSpace bool   `yaml:"trimLeadingSpace" json:"trimLeadingSpace"`
	CRLF             bool   `yaml:"crlf" json:"crlf"`
	StrictFieldCount bool   `yaml:"strictFieldCount" json:"strictFieldCount"`
}

// Field describes one column.
type Field struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Required bool   `yaml:"required" json:"required"`
	// Nullable turns an empty cell into null.
	Nullable bool     `yaml:"nullable" json:"nullable"`
	Enum     []string `yaml:"enum" json:"enum"`
	// Layout is a Go reference layout for type time.
	Layout string   `yaml:"layout" json:"layout"`
	Truthy []string `yaml:"truthy" json:"truthy"`
	Falsy  []string `yaml:"falsy" json:"falsy"`
	// Default is applied when the cell is missing from the row.
	Default any      `yaml:"default" json:"default"`
	Min     *float64 `yaml:"min" json:"min"`
	Max     *float64 `yaml:"max" json:"max"`
	// Timezone is strict (default) or permissive for utc_time and utc_future.
	Timezone string `yaml:"timezone" json:"timezone"`
}

// Column types understood by Compile.
const (
	TypeString     = "string"
	TypeInt        = "int"
	TypeLenientInt = "lenient_int"
	TypeFloat      = "float"
	TypeBool       = "bool"
	TypeTime       = "time"
	TypeUTCTime    = "utc_time"
	TypeUTCFuture  = "utc_future"
	TypeUUID       = "uuid"
	TypeEnum       = "enum"
)

// CSVDialect converts the contract's dialect section.
func (c *Contract) CSVDialect() (csv.Dialect, error) {
	d := csv.Dialect{
		LazyQuotes:       c.Dialect.LazyQuotes,
		TrimLeadingSpace: c.Dialect.TrimLeadingSpace,
		UseCRLF:          c.Dialect.CRLF,
		StrictFieldCount: c.Dialect.StrictFieldCount,
	}
	var err error
	if d.Comma, err = singleRune("delimiter", c.Dialect.Delimiter); err != nil {
		return csv.Dialect{}, err
	}
	if d.Comment, err = singleRune("comment", c.Dialect.Comment); err != nil {
		return csv.Dialect{}, err
	}
	return d, nil
}

func singleRune(what, s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if s == `\t` {
		return '\t', nil
	}
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || n != len(s) {
		return 0, fmt.Errorf("contract: %s must be a single character, got %q", what, s)
	}
	return r, nil
}
