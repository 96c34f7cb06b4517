package register

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/views"
)

type formView struct {
	Token       string
	Invited     bool
	CompanyName string
	Values      Form
	Error       string
}

func (v formView) title(ctx context.Context) string {
	if v.Invited && v.CompanyName != "" {
		return views.T(ctx, "register.invited_title", v.CompanyName)
	}
	return views.T(ctx, "register.title")
}

func registerPage(ctx context.Context, v formView) templ.Component {
	return views.Layout(views.Page{Title: v.title(ctx)}, registerForm(v))
}

func registerForm(v formView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := views.NewWriter(w)
		hw.Rawf(`<section class="register"><h1>%s</h1>`, views.E(v.title(ctx)))
		if v.Error != "" {
			hw.Rawf(`<div class="notice notice-error" role="alert"><strong>%s</strong> %s</div>`,
				views.E(views.T(ctx, "register.failed")), views.E(v.Error))
		}
		hw.Rawf(`<form method="post" action="%s">`, views.E(routepath.RegisterWithInvite(v.Token)))
		hw.Component(ctx, views.Input(views.Field{Name: "first_name", Label: views.T(ctx, "form.first_name"), Value: v.Values.FirstName, Autocomplete: "given-name"}))
		hw.Component(ctx, views.Input(views.Field{Name: "last_name", Label: views.T(ctx, "form.last_name"), Value: v.Values.LastName, Autocomplete: "family-name"}))
		hw.Component(ctx, views.Input(views.Field{Name: "email", Label: views.T(ctx, "form.email"), Type: "email", Value: v.Values.Email, Locked: v.Invited, Required: true, Autocomplete: "email"}))
		hw.Component(ctx, views.Input(views.Field{Name: "password", Label: views.T(ctx, "form.password"), Type: "password", Required: true, Autocomplete: "new-password"}))
		companyValue := v.Values.Company
		if v.Invited && v.CompanyName != "" {
			companyValue = v.CompanyName
		}
		hw.Component(ctx, views.Input(views.Field{Name: "company", Label: views.T(ctx, "form.company"), Value: companyValue, Locked: v.Invited, Autocomplete: "organization"}))
		hw.Rawf(`<button type="submit">%s</button></form>`, views.E(views.T(ctx, "register.submit")))
		hw.Rawf(`<p>%s <a href="%s">%s</a></p></section>`,
			views.E(views.T(ctx, "register.have_account")), routepath.Login, views.E(views.T(ctx, "login.title")))
		return hw.Err()
	})
}

func invalidInvitePage(ctx context.Context) templ.Component {
	text := views.T(ctx, "register.invite_invalid")
	return views.Layout(views.Page{Title: text}, views.Message(text, ""))
}

func successPage(ctx context.Context, result Result) templ.Component {
	refresh := strconv.FormatFloat(result.RedirectAfter.Seconds(), 'f', -1, 64) + ";url=" + result.RedirectTo
	title := views.T(ctx, "register.success_title")
	return views.Layout(views.Page{Title: title, Refresh: refresh}, views.Message(title, views.T(ctx, "register.success_notice")))
}
