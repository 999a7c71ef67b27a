// Package flowext is a plugin library for declarative data pipelines. It
// models columns, tables, schemas, and constraints as validated value
// objects, loads them from strict YAML configuration, checks connections
// and dataset objects against external systems, and ships the data tasks a
// workflow engine calls by tag and alias.
//
// See the packages under pkg/ for the public surface:
//
//   - pkg/models: column, table, schema, and constraint value objects
//   - pkg/loader: strict YAML loading with environment substitution
//   - pkg/conn: connection descriptors and dialect adapters
//   - pkg/dataset: an object bound to a connection
//   - pkg/tasks: the tag@alias task registry and DuckDB-backed tasks
package flowext
