package jsonschema_test

import (
	"reflect"
	"testing"

	js "github.com/reoring/csvskema/jsonschema"
)

func TestNullable(t *testing.T) {
	s := (&js.Schema{Type: "integer"}).Nullable()
	if !reflect.DeepEqual(s.Type, []string{"integer", "null"}) {
		t.Fatalf("unexpected type: %#v", s.Type)
	}
	// Idempotent.
	if s.Nullable(); !reflect.DeepEqual(s.Type, []string{"integer", "null"}) {
		t.Fatalf("null added twice: %#v", s.Type)
	}
	if s := (&js.Schema{}).Nullable(); s.Type != nil {
		t.Fatalf("untyped schema should stay untyped: %#v", s.Type)
	}
}
