package apiutil

import (
	"bytes"
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
)

// RenderHTMLComponent renders component into a buffer first so a failed render
// never leaves a half-written page. It reports whether the page was written.
func RenderHTMLComponent(ctx context.Context, w http.ResponseWriter, component templ.Component, logMsg, errorMsg string) bool {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg(logMsg)
		http.Error(w, errorMsg, http.StatusInternalServerError)
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to write page")
		return false
	}
	return true
}
