// Package user defines the account model and its creation rules.
package user
