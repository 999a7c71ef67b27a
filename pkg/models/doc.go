// Package models provides the declarative data model used by flowext
// pipelines: semantic data types, key and uniqueness constraints, and
// column/table/schema composition.
//
// # Overview
//
// The model layer is the validated middle ground between declarative
// configuration and the connection, dataset, and task layers:
//
//	configuration text -> parsed model instances -> validated -> adapters/tasks
//
// All model objects are immutable after construction. Validation happens in
// a single linear pass at construction time; there is no incremental
// re-validation after mutation because there is no mutation. Rebuild rather
// than mutate-in-place.
//
// # Data types
//
// DataType is a tagged variant: one concrete type per kind (String, Integer,
// Decimal, Timestamp, ...), each carrying only the bounds legal for that
// kind. Bounds are checked at construction, and every type serializes to a
// canonical expression (`varchar(100)`, `numeric(10, 2)`) that ParseType
// accepts back, so configuration round-trips.
//
// # Constraints
//
// Constraints derive deterministic names from their owner table and column
// list: `{table}_{col1}_{col2}_{suffix}` with suffix pk, fk, or uq. Column
// order is preserved as given by the caller, never sorted.
package models
