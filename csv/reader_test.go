package csv_test

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/csv"
	"github.com/reoring/csvskema/dsl"
)

func userModel() csvskema.Model[map[string]any] {
	return dsl.Object().
		Field("id", dsl.InsensitiveInt()).Required().
		Field("name", dsl.StringOf[string]()).Required().
		Field("age", dsl.IntOf[int]()).Required().
		Field("gender", dsl.Enum("male", "female", "others").EmptyAsNull()).Default(nil).
		MustBuild()
}

func TestReader_HeaderThenValidatedRows(t *testing.T) {
	ctx := context.Background()
	in := "id,name,age,gender\n1,Alice,30,female\n2,Bob,41,\n"
	r := csv.NewReader(strings.NewReader(in), userModel())

	header, err := r.Read(ctx)
	if err != nil {
		t.Fatalf("header err: %v", err)
	}
	if len(header) != 4 || header[0] != "id" || header[3] != "gender" {
		t.Fatalf("unexpected header: %v", header)
	}
	if r.Line() != 1 {
		t.Fatalf("expected line 1, got %d", r.Line())
	}

	row, err := r.Read(ctx)
	if err != nil {
		t.Fatalf("row err: %v", err)
	}
	if len(row) != 4 || row[0] != 1 || row[1] != "Alice" || row[2] != 30 || row[3] != "female" {
		t.Fatalf("unexpected row: %#v", row)
	}

	row, err = r.Read(ctx)
	if err != nil {
		t.Fatalf("row err: %v", err)
	}
	if row[3] != nil {
		t.Fatalf("empty optional cell should read as nil, got %#v", row[3])
	}
	if r.Line() != 3 {
		t.Fatalf("expected line 3, got %d", r.Line())
	}

	if _, err := r.Read(ctx); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReader_RowShape(t *testing.T) {
	ctx := context.Background()

	// extra cells are dropped
	r := csv.NewReader(strings.NewReader("h\n1,A,3,male,extra,more\n"), userModel())
	if _, err := r.Read(ctx); err != nil {
		t.Fatalf("header err: %v", err)
	}
	row, err := r.Read(ctx)
	if err != nil || len(row) != 4 {
		t.Fatalf("unexpected: %v %v", row, err)
	}

	// missing cells stay unbound and hit required/default rules
	r = csv.NewReader(strings.NewReader("h\n1,A\n"), userModel())
	_, _ = r.Read(ctx)
	_, err = r.Read(ctx)
	iss, ok := csvskema.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Path != "/age" || iss[0].Code != csvskema.CodeRequired || iss[0].Line != 2 {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestReader_ValidationErrorCarriesValue(t *testing.T) {
	ctx := context.Background()
	r := csv.NewReader(strings.NewReader("id,name,age,gender\n1,Alice,thirty,femail\n"), userModel())
	_, _ = r.Read(ctx)
	_, err := r.Read(ctx)
	iss, ok := csvskema.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", err)
	}
	if iss[0].Path != "/age" || iss[0].Value != "thirty" {
		t.Fatalf("unexpected first issue: %+v", iss[0])
	}
	if iss[1].Path != "/gender" || iss[1].Value != "femail" {
		t.Fatalf("unexpected second issue: %+v", iss[1])
	}
	if !strings.Contains(err.Error(), "(line 2)") {
		t.Fatalf("error text should name the line: %s", err)
	}
}

func TestReader_All(t *testing.T) {
	ctx := context.Background()
	in := "id,name,age,gender\n1,A,1,\n2,B,2,male\nx,C,3,\n4,D,4,\n"
	r := csv.NewReader(strings.NewReader(in), userModel())

	var rows int
	var lastErr error
	for row, err := range r.All(ctx) {
		if err != nil {
			lastErr = err
			continue
		}
		_ = row
		rows++
	}
	if rows != 3 {
		t.Fatalf("expected header plus two rows before the failure, got %d", rows)
	}
	if _, ok := csvskema.AsIssues(lastErr); !ok {
		t.Fatalf("expected issues to end the sequence, got %v", lastErr)
	}
}

func TestReader_Dialect(t *testing.T) {
	ctx := context.Background()
	d := csv.Dialect{Comma: ';', TrimLeadingSpace: true}
	in := "\xEF\xBB\xBFid;name;age;gender\n1; Alice;30;male\n"
	r := csv.NewReader(strings.NewReader(in), userModel(), d)

	if r.Dialect().Comma != ';' {
		t.Fatalf("dialect not kept: %+v", r.Dialect())
	}
	header, err := r.Read(ctx)
	if err != nil {
		t.Fatalf("header err: %v", err)
	}
	if header[0] != "id" {
		t.Fatalf("byte order mark should be stripped, got %q", header[0])
	}
	row, err := r.Read(ctx)
	if err != nil || row[1] != "Alice" {
		t.Fatalf("unexpected row: %v %v", row, err)
	}

	kept := csv.NewReader(strings.NewReader(in), userModel(), csv.Dialect{Comma: ';', KeepBOM: true})
	header, _ = kept.Read(ctx)
	if header[0] == "id" {
		t.Fatalf("KeepBOM should leave the mark in place")
	}
}

func TestReader_StrictFieldCount(t *testing.T) {
	ctx := context.Background()
	r := csv.NewReader(strings.NewReader("id,name,age,gender\n1,A\n"), userModel(), csv.Dialect{StrictFieldCount: true})
	_, _ = r.Read(ctx)
	_, err := r.Read(ctx)
	if !errors.Is(err, stdcsv.ErrFieldCount) {
		t.Fatalf("expected ErrFieldCount, got %v", err)
	}
}

type user struct {
	ID     int     `csv:"id"`
	Name   string  `csv:"name"`
	Age    int     `csv:"age"`
	Gender *string `csv:"gender"`
}

func typedUserModel() csvskema.Model[user] {
	return dsl.ObjectOf[user]().
		Field("id", dsl.InsensitiveInt()).Required().
		Field("name", dsl.StringOf[string]()).Required().
		Field("age", dsl.IntOf[int]()).Required().
		Field("gender", dsl.Enum("male", "female", "others").EmptyAsNull()).Default(nil).
		MustBind()
}

func TestReader_ReadRecordSkipsHeader(t *testing.T) {
	ctx := context.Background()
	r := csv.NewReader(strings.NewReader("id,name,age,gender\n7,Zed,19,others\n"), typedUserModel())
	u, err := r.ReadRecord(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.ID != 7 || u.Name != "Zed" || u.Age != 19 || u.Gender == nil || *u.Gender != "others" {
		t.Fatalf("unexpected record: %+v", u)
	}
	if h := r.Header(); len(h) != 4 {
		t.Fatalf("header should be kept: %v", h)
	}
	if _, err := r.ReadRecord(ctx); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := csv.NewReader(strings.NewReader("id\n1\n"), userModel())
	if _, err := r.Read(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
