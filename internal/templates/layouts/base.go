package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const baseStyles = `body{font-family:system-ui,sans-serif;margin:0;background:#fafaf9;color:#1c1917}` +
	`main{max-width:40rem;margin:2rem auto;padding:0 1rem}` +
	`h1{color:var(--theme-primary)}` +
	`.hours-panel{background:#fff;border:1px solid #e7e5e4;border-radius:.5rem;padding:1rem}` +
	`.hours-panel__header{display:flex;align-items:center;gap:.5rem}` +
	`.badge{padding:.125rem .5rem;border-radius:9999px;font-size:.75rem;font-weight:600}` +
	`.badge--open{color:var(--theme-open);background:#dcfce7}` +
	`.badge--closed{color:var(--theme-closed);background:#fee2e2}` +
	`.special--today,.day--today{background:var(--theme-highlight);border-radius:.25rem}` +
	`.special__hours--open{color:var(--theme-open)}.special__hours--closed{color:var(--theme-closed)}` +
	`.day{display:flex;justify-content:space-between;padding:.25rem .5rem}dd{margin:0}`

// Base wraps body in the storefront page shell.
func Base(title string, body templ.Component, theme *Theme) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<style>` + getThemeCssVars(theme) + baseStyles + `</style></head>` +
			`<body><main><h1>` + templ.EscapeString(title) + `</h1>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
