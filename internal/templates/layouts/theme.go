package layouts

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Theme holds the storefront's brand colors.
type Theme struct {
	PrimaryColor   string
	AccentColor    string
	OpenColor      string
	ClosedColor    string
	HighlightColor string
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:   "#7c4a1e",
		AccentColor:    "#f2c14e",
		OpenColor:      "#166534",
		ClosedColor:    "#991b1b",
		HighlightColor: "#dbeafe",
	}
}

func getThemeCssVars(theme *Theme) string {
	defaultTheme := DefaultTheme()
	primary := defaultTheme.PrimaryColor
	accent := defaultTheme.AccentColor
	open := defaultTheme.OpenColor
	closed := defaultTheme.ClosedColor
	highlight := defaultTheme.HighlightColor

	if theme != nil {
		primary = themeColorOrDefault(theme.PrimaryColor, primary)
		accent = themeColorOrDefault(theme.AccentColor, accent)
		open = themeColorOrDefault(theme.OpenColor, open)
		closed = themeColorOrDefault(theme.ClosedColor, closed)
		highlight = themeColorOrDefault(theme.HighlightColor, highlight)
	}

	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-accent:%s;--theme-open:%s;--theme-closed:%s;--theme-highlight:%s;}",
		primary,
		accent,
		open,
		closed,
		highlight,
	)
}

func themeColorOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if !hexColorPattern.MatchString(trimmed) {
		return fallback
	}
	return trimmed
}
