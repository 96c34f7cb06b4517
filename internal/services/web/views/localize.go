package views

import (
	"context"
	"net/http"

	"github.com/louisbranch/crmdesk/internal/platform/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type printerKey struct{}
type langKey struct{}

// WithPrinter stores the request printer and its language on ctx.
func WithPrinter(ctx context.Context, tag language.Tag, printer *message.Printer) context.Context {
	ctx = context.WithValue(ctx, printerKey{}, printer)
	return context.WithValue(ctx, langKey{}, tag)
}

// T translates key for the request locale. Without a printer the key is
// returned unchanged.
func T(ctx context.Context, key string, args ...any) string {
	if printer, ok := ctx.Value(printerKey{}).(*message.Printer); ok && printer != nil {
		return printer.Sprintf(key, args...)
	}
	return key
}

// Lang returns the BCP 47 tag of the request locale.
func Lang(ctx context.Context) string {
	if tag, ok := ctx.Value(langKey{}).(language.Tag); ok {
		return tag.String()
	}
	return i18n.BaseLocale
}

// Localize picks the request locale from Accept-Language.
func Localize(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := bundle.Resolve(r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(WithPrinter(r.Context(), tag, bundle.Printer(tag))))
		})
	}
}
