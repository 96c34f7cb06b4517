// Package storage defines persistence contracts for companies, invites and profiles.
package storage
