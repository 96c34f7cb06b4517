package views

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// Writer accumulates HTML output and remembers the first write error.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup.
func (hw *Writer) Raw(markup string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, markup)
}

// Rawf formats trusted markup; callers escape every interpolated value.
func (hw *Writer) Rawf(format string, args ...any) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format, args...)
}

// Text writes escaped text.
func (hw *Writer) Text(text string) {
	hw.Raw(templ.EscapeString(text))
}

// Component renders a child component into the same stream.
func (hw *Writer) Component(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// Err returns the first error encountered.
func (hw *Writer) Err() error {
	return hw.err
}

// E escapes a value for interpolation into markup.
func E(value string) string {
	return templ.EscapeString(value)
}

// Render writes component with status as an HTML response.
func Render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}
