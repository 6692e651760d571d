package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Frame is everything shown for one screen.
type Frame struct {
	Levels  [][]string
	Title   string
	View    string
	Help    string
	Effects []string
}

// Renderer writes frames to a terminal.
type Renderer struct {
	w       io.Writer
	profile termenv.Profile
}

// NewRenderer creates a renderer writing to w. Use termenv.Ascii to disable
// colors.
func NewRenderer(w io.Writer, profile termenv.Profile) *Renderer {
	return &Renderer{w: w, profile: profile}
}

// Breadcrumb joins the stack: pushes with " › " and presentations with " ⇡ ".
func Breadcrumb(levels [][]string) string {
	parts := make([]string, 0, len(levels))
	for _, level := range levels {
		parts = append(parts, strings.Join(level, " › "))
	}
	return strings.Join(parts, " ⇡ ")
}

// Render writes f.
func (r *Renderer) Render(f Frame) {
	dim := func(s string) string { return paint(r.profile, s, "#94a3b8", false) }

	fmt.Fprintln(r.w, dim(Breadcrumb(f.Levels)))
	fmt.Fprintln(r.w, paint(r.profile, f.Title, "#38bdf8", true))
	if f.View != "" {
		fmt.Fprintln(r.w, f.View)
	}
	if len(f.Effects) > 0 {
		fmt.Fprintln(r.w, dim("running: "+strings.Join(f.Effects, ", ")))
	}
	if f.Help != "" {
		fmt.Fprint(r.w, dim(f.Help))
	}
}

// Error writes err in red.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, paint(r.profile, "error: "+err.Error(), "#f87171", false))
}

// paint styles s unless p has no colors.
func paint(p termenv.Profile, s, color string, bold bool) string {
	if p == termenv.Ascii {
		return s
	}
	style := termenv.String(s).Foreground(p.Color(color))
	if bold {
		style = style.Bold()
	}
	return style.String()
}
