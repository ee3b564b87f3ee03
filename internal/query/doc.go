// Package query applies a data source binding's declarative filter, sort and
// limit operations to resolved section data.
//
// Stages always run in the fixed order filter, sort, limit. Limiting before
// sorting would keep items by insertion order rather than by rank.
package query
