// Package types defines the catalog entity types, the closed set of catalog
// commands, the KVStore interface that persistence backends implement, and
// the standard error values shared across the Teaching Torch packages.
package types
