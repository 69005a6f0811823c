// Package dsl provides a type-safe schema DSL for csvskema row models.
//
// Overview
//   - Builder API: declare row semantics (unknown/required/default/refine) with Object()/Field()/Required()/UnknownStrict()/MustBuild().
//   - Typed build: generate a safe projection cells -> T with ObjectOf[T]().Field(...).MustBind().
//   - Field order: fields keep declaration order; it is the column order used by csv readers and writers.
//   - Primitives: String()/Bool()/Int()/Float() plus the *Of[T] adapters, Enum, Time, TimeLayout, UUID.
//   - Cell wrappers: EmptyAsNull, Nullable, Min, Max, Before; InsensitiveInt truncates fractional numbers.
//   - AnyAdapter: adapt existing Schema[T] to AnyAdapter via `SchemaOf[T](s)` to embed into builders.
//
// File layout (roles)
//   - adapter.go: AnyAdapter and the cell wrappers.
//   - primitives.go: leaf schemas and their coercion rules.
//   - insensitive.go: InsensitiveInt.
//   - object_builder.go / object_core.go: ordered object model (Parse/ValidateValue/JSONSchema/FieldNames/Values).
//   - object_typed_builder.go / bind.go: binding onto struct types.
//   - codec_wrap.go: Codec[A,B] as a field schema.
//
// Example
//
//	type User struct {
//	    ID     int     `csv:"id"`
//	    Name   string  `csv:"name"`
//	    Gender *string `csv:"gender"`
//	    Age    int     `csv:"age"`
//	}
//
//	users := g.ObjectOf[User]().
//	    Field("id", g.InsensitiveInt()).Required().
//	    Field("name", g.StringOf[string]()).Required().
//	    Field("gender", g.Enum("male", "female").EmptyAsNull()).Default(nil).
//	    Field("age", g.InsensitiveInt()).Required().
//	    MustBind()
//
//	u, err := users.Parse(ctx, map[string]any{"id": "1", "name": "Ann", "gender": "", "age": 30.7})
//	// u.Gender == nil, u.Age == 30
//
// # Error model
//
// Failures are csvskema.Issues. Field issues are rebased under "/<field>" and
// keep the rejected Value; unknown keys are reported in key-sorted order.
package dsl
