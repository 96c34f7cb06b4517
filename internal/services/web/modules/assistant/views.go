package assistant

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/views"
)

func assistantPage(ctx context.Context, page views.Page, v View) templ.Component {
	page.Title = views.T(ctx, "assistant.title")
	if v.Typing {
		page.Refresh = strconv.Itoa(int(TypingDuration.Seconds()))
	}
	return views.Layout(page, panelView(v))
}

func panelView(v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := views.NewWriter(w)
		hw.Raw(`<section class="assistant"><div class="chat">`)
		hw.Rawf(`<header><h2>ArkCRM Assistant</h2><p>%s</p></header>`, views.E(views.T(ctx, "assistant.subtitle")))
		hw.Raw(`<ol class="transcript">`)
		for _, m := range v.Messages {
			hw.Rawf(`<li class="message message-%s" data-id="%d"><div class="bubble" style="white-space:pre-wrap">%s</div><time>%s</time></li>`,
				views.E(string(m.Role)), m.ID, views.E(m.Content), views.E(m.Timestamp))
		}
		if v.Typing {
			hw.Rawf(`<li class="message message-assistant typing" aria-live="polite">%s</li>`, views.E(views.T(ctx, "assistant.typing")))
		}
		hw.Raw(`</ol>`)
		hw.Rawf(`<form method="post" action="%s" class="composer">`, routepath.AssistantSend)
		hw.Rawf(`<input name="message" type="text" value="%s" placeholder="%s" aria-label="%s">`,
			views.E(v.Input), views.E(views.T(ctx, "assistant.placeholder")), views.E(views.T(ctx, "assistant.placeholder")))
		hw.Rawf(`<button type="submit">%s</button></form></div>`, views.E(views.T(ctx, "assistant.send")))

		hw.Rawf(`<aside><h3>%s</h3><ul class="prompts">`, views.E(views.T(ctx, "assistant.prompts")))
		for i, p := range v.Prompts {
			hw.Rawf(`<li><form method="post" action="%s"><input type="hidden" name="index" value="%d">`, routepath.AssistantPrompt, i)
			hw.Rawf(`<button type="submit"><strong>%s</strong><span>%s</span></button></form></li>`, views.E(p.Title), views.E(p.Description))
		}
		hw.Rawf(`</ul><h3>%s</h3>`, views.E(views.T(ctx, "assistant.insights")))
		for _, in := range v.Insights {
			hw.Rawf(`<div class="insight insight-%s"><h4>%s</h4><p>%s</p></div>`, views.E(in.Kind), views.E(in.Title), views.E(in.Body))
		}
		hw.Raw(`<ul class="recent">`)
		for _, action := range v.Actions {
			hw.Rawf(`<li>%s</li>`, views.E(action))
		}
		hw.Raw(`</ul></aside></section>`)
		return hw.Err()
	})
}
