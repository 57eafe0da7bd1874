// Package catalog caches per-file partial descriptors in SQLite.
//
// A cached analysis is keyed by the absolute path of the partials file, the
// SHA-256 of its contents, and a fingerprint of the analysis settings, so a
// changed file or changed settings miss the cache. Rows are identified by
// random UUIDs.
package catalog
