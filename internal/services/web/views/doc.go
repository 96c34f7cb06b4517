// Package views holds the shared page shell and rendering helpers used by
// the web modules' templ components.
package views
