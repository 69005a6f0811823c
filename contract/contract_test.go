package contract_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/contract"
	"github.com/reoring/csvskema/csv"
	"github.com/reoring/csvskema/timezones"
)

const usersYAML = `
name: users
unknown: strict
dialect:
  delimiter: ";"
fields:
  - {name: id, type: lenient_int, required: true, min: 1}
  - {name: name, type: string, required: true}
  - {name: age, type: int, required: true, min: 0, max: 150}
  - {name: gender, type: enum, enum: [male, female, others], nullable: true}
  - {name: active, type: bool, default: true}
  - {name: created, type: utc_time, timezone: permissive}
`

func TestLoadYAML_CompileAndRead(t *testing.T) {
	ctx := context.Background()
	c, err := contract.LoadYAML([]byte(usersYAML))
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	m, diag, err := contract.Compile(c)
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
	names := m.FieldNames()
	if strings.Join(names, ",") != "id,name,age,gender,active,created" {
		t.Fatalf("unexpected field order: %v", names)
	}

	d, err := c.CSVDialect()
	if err != nil || d.Comma != ';' {
		t.Fatalf("unexpected dialect: %+v %v", d, err)
	}

	in := "id;name;age;gender;active;created\n1;Ann;30;;no;2024-01-02 03:04:05\n"
	r := csv.NewDictReader(strings.NewReader(in), m, csv.DictOptions{Dialect: d})
	row, err := r.Read(ctx)
	if err != nil {
		t.Fatalf("read err: %v", err)
	}
	if row["gender"] != nil || row["active"] != false || row["age"] != 30 {
		t.Fatalf("unexpected row: %#v", row)
	}
	created, ok := row["created"].(timezones.UTCTime)
	if !ok || created.String() != "2024-01-02T03:04:05Z" {
		t.Fatalf("unexpected created: %#v", row["created"])
	}
}

func TestCompile_ValidatesRows(t *testing.T) {
	ctx := context.Background()
	c, err := contract.LoadYAML([]byte(usersYAML))
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	m, _, err := contract.Compile(c)
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}

	_, err = m.Parse(ctx, map[string]any{"id": "0", "name": "A", "age": "200"})
	iss, ok := csvskema.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", err)
	}
	if iss[0].Path != "/id" || iss[0].Code != csvskema.CodeTooSmall {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
	if iss[1].Path != "/age" || iss[1].Code != csvskema.CodeTooBig {
		t.Fatalf("unexpected issue: %+v", iss[1])
	}

	v, err := m.Parse(ctx, map[string]any{"id": "2", "name": "B", "age": "1"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v["active"] != true {
		t.Fatalf("default not applied: %#v", v)
	}
}

func TestLoadJSON(t *testing.T) {
	doc := `{
  "name": "events",
  "unknown": "passthrough",
  "extras": "more",
  "fields": [
    {"name": "id", "type": "uuid", "required": true},
    {"name": "at", "type": "utc_future"},
    {"name": "score", "type": "float", "default": 1.5},
    {"name": "day", "type": "time", "layout": "2006-01-02"}
  ]
}`
	c, err := contract.LoadJSON([]byte(doc))
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	m, _, err := contract.Compile(c)
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	v, err := m.Parse(context.Background(), map[string]any{
		"id":    "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"day":   "2024-02-29",
		"other": "kept",
	})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if v["score"] != 1.5 {
		t.Fatalf("default not applied: %#v", v["score"])
	}
	if more, _ := v["more"].(map[string]any); more["other"] != "kept" {
		t.Fatalf("passthrough missing: %#v", v)
	}

	if _, err := contract.LoadJSON([]byte(`{"fields": [], "bogus": 1}`)); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestCompile_Errors(t *testing.T) {
	cases := map[string]string{
		"no fields":      `name: x`,
		"unknown type":   "fields:\n  - {name: a, type: money}",
		"duplicate":      "fields:\n  - {name: a, type: string}\n  - {name: a, type: int}",
		"empty enum":     "fields:\n  - {name: a, type: enum}",
		"missing type":   "fields:\n  - {name: a}",
		"bad policy":     "unknown: loose\nfields:\n  - {name: a, type: string}",
		"no extras":      "unknown: passthrough\nfields:\n  - {name: a, type: string}",
		"bad timezone":   "fields:\n  - {name: a, type: utc_time, timezone: local}",
		"tz on non-time": "fields:\n  - {name: a, type: string, timezone: permissive}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := contract.LoadYAML([]byte(doc))
			if err != nil {
				t.Fatalf("load err: %v", err)
			}
			if _, _, err := contract.Compile(c); err == nil {
				t.Fatalf("expected compile error")
			}
		})
	}

	if _, err := contract.LoadYAML([]byte("fieldz: []")); err == nil {
		t.Fatalf("expected unknown YAML key to be rejected")
	}
	c := &contract.Contract{Dialect: contract.DialectSpec{Delimiter: ";;"}}
	if _, err := c.CSVDialect(); err == nil {
		t.Fatalf("expected multi-character delimiter to be rejected")
	}
}

func TestCompile_Warnings(t *testing.T) {
	c, err := contract.LoadYAML([]byte("fields:\n  - {name: a, type: string, min: 1}\n  - {name: b, type: int, layout: x}"))
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	_, diag, err := contract.Compile(c)
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if len(diag.Warnings()) != 2 {
		t.Fatalf("expected two warnings, got %v", diag.Warnings())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "c.yml")
	if err := os.WriteFile(yml, []byte(usersYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := contract.LoadFile(yml)
	if err != nil || c.Name != "users" || len(c.Fields) != 6 {
		t.Fatalf("unexpected: %+v %v", c, err)
	}

	txt := filepath.Join(dir, "c.txt")
	if err := os.WriteFile(txt, []byte(usersYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := contract.LoadFile(txt); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}
