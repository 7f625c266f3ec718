// Package templates holds the HTML components served by the web layer.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders the dismissible error box swapped in by HTMX requests.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newPrinter(w)
		p.raw(`<div class="alert alert-error" role="alert">`)
		p.raw(`<p class="alert-message">`)
		p.text(message)
		p.raw(`</p>`)
		if action != "" {
			p.raw(`<p class="alert-action">`)
			p.text(action)
			p.raw(`</p>`)
		}
		if code != "" {
			p.raw(`<p class="alert-code">Code: `)
			p.text(code)
			p.raw(`</p>`)
		}
		p.raw(`<button type="button" class="alert-close" onclick="this.parentElement.remove()">&times;</button>`)
		p.raw(`</div>`)
		return p.err
	})
}

// printer accumulates the first write error so components can emit markup
// without checking every call.
type printer struct {
	w   io.Writer
	err error
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *printer) component(ctx context.Context, c templ.Component) {
	if p.err != nil {
		return
	}
	p.err = c.Render(ctx, p.w)
}
