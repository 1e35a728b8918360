// Package clipboard copies a selected path or match to the system clipboard.
package clipboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fzgrep/fzgrep/internal/platform"
)

// ErrEmpty is returned when there is nothing to copy.
var ErrEmpty = errors.New("nothing to copy")

// Copier writes text somewhere the user can paste it from.
type Copier interface {
	Copy(text string) (method string, err error)
}

// System tries the platform clipboard command first, then the OSC 52
// terminal escape when OSC52 is set.
type System struct {
	OSC52 bool
}

func (s System) Copy(text string) (string, error) {
	if text == "" {
		return "", ErrEmpty
	}
	name, args, err := nativeCommand(platform.Detect(), os.Getenv, exec.LookPath)
	if err == nil {
		cmd := exec.Command(name, args...)
		cmd.Stdin = strings.NewReader(text)
		if err = cmd.Run(); err == nil {
			return name, nil
		}
	}
	if !s.OSC52 {
		return "", fmt.Errorf("no clipboard available: %w", err)
	}
	if err := writeOSC52(text); err != nil {
		return "", fmt.Errorf("osc52: %w", err)
	}
	return "osc52", nil
}

func nativeCommand(p platform.Platform, getenv func(string) string, lookPath func(string) (string, error)) (string, []string, error) {
	switch p {
	case platform.MacOS:
		return "pbcopy", nil, nil
	case platform.WSL, platform.Windows:
		return "clip.exe", nil, nil
	case platform.Linux:
		if getenv("WAYLAND_DISPLAY") != "" {
			if path, err := lookPath("wl-copy"); err == nil {
				return path, nil, nil
			}
		}
		if path, err := lookPath("xclip"); err == nil {
			return path, []string{"-selection", "clipboard"}, nil
		}
		if path, err := lookPath("xsel"); err == nil {
			return path, []string{"--clipboard", "--input"}, nil
		}
		return "", nil, errors.New("install wl-copy, xclip or xsel")
	default:
		return "", nil, fmt.Errorf("unsupported platform %s", p)
	}
}

// writeOSC52 goes straight to the controlling terminal so it works while
// the alt-screen owns stdout.
func writeOSC52(text string) error {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer tty.Close()
	_, err = tty.WriteString(osc52(text, os.Getenv("TMUX") != ""))
	return err
}

func osc52(text string, tmux bool) string {
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\x07"
	if tmux {
		return "\x1bPtmux;\x1b" + seq + "\x1b\\"
	}
	return seq
}
