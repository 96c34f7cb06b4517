package signin

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/views"
)

type loginView struct {
	Email string
	Error string
}

func loginPage(ctx context.Context, page views.Page, v loginView) templ.Component {
	page.Title = views.T(ctx, "login.title")
	return views.Layout(page, loginForm(v))
}

func loginForm(v loginView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := views.NewWriter(w)
		hw.Rawf(`<section class="login"><h1>%s</h1>`, views.E(views.T(ctx, "login.title")))
		if v.Error != "" {
			hw.Rawf(`<div class="notice notice-error" role="alert"><strong>%s</strong> %s</div>`,
				views.E(views.T(ctx, "login.failed")), views.E(v.Error))
		}
		hw.Rawf(`<form method="post" action="%s">`, routepath.Login)
		hw.Component(ctx, views.Input(views.Field{Name: "email", Label: views.T(ctx, "form.email"), Type: "email", Value: v.Email, Required: true, Autocomplete: "email"}))
		hw.Component(ctx, views.Input(views.Field{Name: "password", Label: views.T(ctx, "form.password"), Type: "password", Required: true, Autocomplete: "current-password"}))
		hw.Rawf(`<button type="submit">%s</button></form>`, views.E(views.T(ctx, "login.submit")))
		hw.Rawf(`<p>%s <a href="%s">%s</a></p></section>`,
			views.E(views.T(ctx, "login.no_account")), routepath.Register, views.E(views.T(ctx, "register.title")))
		return hw.Err()
	})
}
