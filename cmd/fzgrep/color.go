package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// initColorProfile picks the lipgloss color profile. FZGREP_COLOR
// (truecolor, 256, 16, none) wins over detection; otherwise truecolor is
// assumed for terminals that commonly support it even when they do not say so.
func initColorProfile() {
	lipgloss.SetColorProfile(detectColorProfile(os.Getenv))
}

func detectColorProfile(getenv func(string) string) termenv.Profile {
	switch strings.ToLower(getenv("FZGREP_COLOR")) {
	case "truecolor", "true", "24bit":
		return termenv.TrueColor
	case "256", "ansi256":
		return termenv.ANSI256
	case "16", "ansi", "basic":
		return termenv.ANSI
	case "none", "off", "ascii":
		return termenv.Ascii
	}

	if getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if ct := getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		return termenv.TrueColor
	}

	t := getenv("TERM")
	for _, known := range []string{"256color", "alacritty", "kitty", "wezterm", "ghostty", "xterm-direct"} {
		if strings.Contains(t, known) {
			return termenv.TrueColor
		}
	}
	if t == "" || t == "dumb" {
		return termenv.Ascii
	}
	return termenv.ANSI256
}
