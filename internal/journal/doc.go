// Package journal persists an append-only history of sort batches in
// SQLite. It is an audit log: the sorter writes one row per invocation and
// one row per materialized sequence, and the history commands read them
// back. Nothing in the sorting pipeline depends on the journal contents.
package journal
