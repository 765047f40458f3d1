package hours

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Panel renders the public business-hours card.
func Panel(data PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<section class="hours-panel" id="business-hours">`)
		p.raw(`<header class="hours-panel__header"><h3>Business Hours</h3>`)
		switch {
		case !data.HasSchedule:
			p.raw(`<span class="badge badge--closed">Currently Closed</span></header>`)
			p.raw(`<p class="hours-panel__notice">We're currently closed. Please check back soon for updated hours.</p>`)
			p.raw(`</section>`)
			return p.err
		case data.IsOpen:
			p.raw(`<span class="badge badge--open">Open Now</span>`)
		default:
			p.raw(`<span class="badge badge--closed">Closed</span>`)
		}
		p.raw(`</header>`)

		if len(data.Specials) > 0 {
			p.raw(`<div class="hours-panel__specials"><h4>This Week's Special Hours:</h4><ul>`)
			for _, s := range data.Specials {
				p.raw(`<li class="special`)
				if s.IsToday {
					p.raw(` special--today`)
				}
				p.raw(`"><span class="special__date">`)
				p.text(s.DateLabel)
				if s.IsToday && s.DateLabel != "Today" {
					p.raw(` (Today)`)
				}
				p.raw(`</span> <span class="special__name">- `)
				p.text(s.Name)
				p.raw(`</span> <span class="special__hours special__hours--`)
				if s.IsOpen {
					p.raw(`open`)
				} else {
					p.raw(`closed`)
				}
				p.raw(`">`)
				p.text(s.Hours)
				p.raw(`</span></li>`)
			}
			p.raw(`</ul></div>`)
		}

		p.raw(`<div class="hours-panel__regular"><h4>Regular Hours:</h4><dl>`)
		for _, day := range data.Regular {
			if day.IsToday {
				p.raw(`<div class="day day--today">`)
			} else {
				p.raw(`<div class="day">`)
			}
			p.raw(`<dt>`)
			p.text(day.Label)
			p.raw(`</dt><dd>`)
			p.text(day.Hours)
			p.raw(`</dd></div>`)
		}
		p.raw(`</dl></div></section>`)
		return p.err
	})
}

// printer stops writing after the first error.
type printer struct {
	w   io.Writer
	err error
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
