// Package catalog maintains the cross-script namespace of database and
// schema declarations, allocating stable monotonic ids and resolving table
// references across every script loaded against it.
package catalog
