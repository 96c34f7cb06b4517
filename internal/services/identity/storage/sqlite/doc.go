// Package sqlite provides SQLite-backed identity persistence.
package sqlite
