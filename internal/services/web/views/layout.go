package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/flash"
)

// Page describes the document shell around a module body.
type Page struct {
	Title string
	// Refresh, when set, is a meta refresh value such as "1.5;url=/login".
	Refresh string
	// Notice is an already localized one-time message.
	Notice     string
	NoticeKind string
	// SignedInAs shows the principal name and a sign-out button.
	SignedInAs string
}

// Layout wraps body in the shared document shell.
func Layout(page Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Rawf(`<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8">`, E(Lang(ctx)))
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if page.Refresh != "" {
			hw.Rawf(`<meta http-equiv="refresh" content="%s">`, E(page.Refresh))
		}
		hw.Rawf(`<title>%s · ArkCRM</title></head><body>`, E(page.Title))
		hw.Raw(`<header class="topbar"><a class="brand" href="/app/assistant">ArkCRM</a>`)
		if page.SignedInAs != "" {
			hw.Rawf(`<span class="who">%s</span>`, E(page.SignedInAs))
			hw.Rawf(`<form method="post" action="/logout"><button type="submit">%s</button></form>`, E(T(ctx, "logout.submit")))
		}
		hw.Raw(`</header><main>`)
		if page.Notice != "" {
			kind := page.NoticeKind
			if kind == "" {
				kind = "info"
			}
			hw.Rawf(`<div class="notice notice-%s" role="status">%s</div>`, E(kind), E(page.Notice))
		}
		hw.Component(ctx, body)
		hw.Raw(`</main></body></html>`)
		return hw.Err()
	})
}

// Message renders a single heading and paragraph.
func Message(title, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Rawf(`<section class="message"><h1>%s</h1>`, E(title))
		if text != "" {
			hw.Rawf(`<p>%s</p>`, E(text))
		}
		hw.Raw(`</section>`)
		return hw.Err()
	})
}

// Field renders a labeled input. Locked fields are read-only.
type Field struct {
	Name         string
	Label        string
	Type         string
	Value        string
	Locked       bool
	Required     bool
	Autocomplete string
}

// Input renders f.
func Input(f Field) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)
		typ := f.Type
		if typ == "" {
			typ = "text"
		}
		hw.Rawf(`<label for="%s">%s</label>`, E(f.Name), E(f.Label))
		hw.Rawf(`<input id="%s" name="%s" type="%s" value="%s"`, E(f.Name), E(f.Name), E(typ), E(f.Value))
		if f.Autocomplete != "" {
			hw.Rawf(` autocomplete="%s"`, E(f.Autocomplete))
		}
		if f.Required {
			hw.Raw(` required`)
		}
		if f.Locked {
			hw.Raw(` readonly aria-readonly="true"`)
		}
		hw.Raw(`>`)
		return hw.Err()
	})
}

// WithFlash copies a one-time notice into the page.
func (p Page) WithFlash(ctx context.Context, notice flash.Notice, ok bool) Page {
	if !ok {
		return p
	}
	p.Notice = T(ctx, notice.Key)
	p.NoticeKind = string(notice.Kind)
	return p
}
