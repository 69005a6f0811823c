// Package csvskema provides:
//
// - Type-safe validation and coercion of tabular rows based on Schema/Model (Parse/ValidateValue)
// - A stable error model via Issues (JSON Pointer path, code, message, rejected value, line)
// - Ordered-field models so rows can be zipped positionally onto field names
// - Codec contracts for cell <-> domain conversions (see codec/)
//
// Design policy:
//   - Keep only public contracts in the root package; builders live under dsl/, CSV adapters under csv/.
//   - Place timezone-aware value types under timezones/, declarative contracts under contract/,
//     and the CLI under cmd/csvskema.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := dsl.ObjectOf[User]().
//	    Field("id", dsl.IntOf[int]()).Required().
//	    Field("name", dsl.StringOf[string]()).Required().
//	    MustBind()
//
//	r := csv.NewReader(f, user)
//	for row, err := range r.All(ctx) { ... }
package csvskema
