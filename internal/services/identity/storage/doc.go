// Package storage defines persistence contracts for accounts and sessions.
package storage
