// Package session resolves the signed-in principal for each request.
//
// A Provider starts resolution when a request arrives and hands back a State
// that reports loading until the identity and profile lookups finish. Once
// resolved, a State never changes; a new request resolves afresh.
package session
