// Package redscreen is a ready made visual fallback for boundaries whose
// view type is string. It renders the captured error as a bordered terminal
// panel, with the component stack when the error carries one.
package redscreen

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/delaneyj/bulwark/boundary"
	"github.com/delaneyj/bulwark/scope"
)

const title = "Something went wrong"

// Styles are the lipgloss styles the panel is assembled from. Start from
// DefaultStyles and override fields as needed.
type Styles struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Message lipgloss.Style
	Stack   lipgloss.Style
	Hint    lipgloss.Style
}

func DefaultStyles() Styles {
	red := lipgloss.Color("9")
	dim := lipgloss.Color("8")
	return Styles{
		Frame:   lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(red).Padding(0, 2),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(red),
		Message: lipgloss.NewStyle(),
		Stack:   lipgloss.NewStyle().Foreground(dim),
		Hint:    lipgloss.NewStyle().Foreground(dim).Italic(true),
	}
}

// View renders the default panel for err.
func View(err error) string {
	return DefaultStyles().Render(err)
}

// ViewCtx renders the default panel with the stack recorded in ctx. Use it
// for captures whose context was attached explicitly, through
// Boundary.CaptureError or a Handle, where the error value itself carries no
// site.
func ViewCtx(err error, ctx boundary.Context) string {
	return DefaultStyles().RenderCtx(err, ctx)
}

// Fallback plugs the default panel into Options.FallbackRender.
func Fallback() func(boundary.FallbackProps[string]) string {
	styles := DefaultStyles()
	return func(p boundary.FallbackProps[string]) string {
		return styles.Render(p.Err)
	}
}

// Render assembles the panel: title, error message, the failing component
// stack when the error is a scope.SiteError, and a reset hint.
func (s Styles) Render(err error) string {
	return s.RenderCtx(err, boundary.Context{})
}

// RenderCtx is Render with an explicit capture context. A stack in ctx wins
// over one carried by the error.
func (s Styles) RenderCtx(err error, ctx boundary.Context) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	lines := []string{
		s.Title.Render(title),
		s.Message.Render(msg),
	}
	stack := ctx.Stack
	if len(stack) == 0 {
		var site *scope.SiteError
		if errors.As(err, &site) {
			stack = site.Stack
		}
	}
	if len(stack) > 0 {
		lines = append(lines, s.Stack.Render("in "+strings.Join(stack, " > ")))
	}
	lines = append(lines, s.Hint.Render("reset the boundary to try again"))

	return s.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
