// Package tui renders screens for the interactive terminal host.
package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Wayfinder banner to w.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct {
		text  string
		color string
	}{
		{` __      __              __ _         _`, "#38bdf8"},
		{` \ \    / /_ _ _  _ ___ / _(_)_ _  __| |___ _ _`, "#22d3ee"},
		{`  \ \/\/ / _' | || |___|  _| | ' \/ _' / -_) '_|`, "#2dd4bf"},
		{`   \_/\_/\__,_|\_, |   |_| |_|_||_\__,_\___|_|`, "#34d399"},
		{`               |__/`, "#4ade80"},
	}
	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, paint(p, l.text, l.color, false))
	}
	fmt.Fprintln(w)
}
