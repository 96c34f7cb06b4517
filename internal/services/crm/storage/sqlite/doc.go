// Package sqlite provides SQLite-backed CRM persistence.
package sqlite
