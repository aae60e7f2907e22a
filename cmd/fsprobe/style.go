package main

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/resolvefs/fsutil"
)

var stdoutIsTerminal int32 = -1 // -1 = unchecked, 0 = no, 1 = yes

func isTerminal(fd int, cached *int32) bool {
	if v := atomic.LoadInt32(cached); v >= 0 {
		return v == 1
	}
	result := term.IsTerminal(fd)
	if result {
		atomic.StoreInt32(cached, 1)
	} else {
		atomic.StoreInt32(cached, 0)
	}
	return result
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	specialStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// painter renders styled text only when stdout is a terminal.
type painter struct {
	color bool
}

func newPainter() painter {
	return painter{color: isTerminal(int(os.Stdout.Fd()), &stdoutIsTerminal)}
}

func (p painter) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p painter) header(text string) string {
	return p.render(headerStyle, text)
}

func (p painter) kind(t fsutil.DescriptorType, text string) string {
	switch t {
	case fsutil.DescriptorTypeDirectory:
		return p.render(dirStyle, text)
	case fsutil.DescriptorTypeRegularFile:
		return p.render(fileStyle, text)
	case fsutil.DescriptorTypeUnknown:
		return p.render(dimStyle, text)
	default:
		return p.render(specialStyle, text)
	}
}

func (p painter) err(text string) string {
	return p.render(errorStyle, text)
}

func (p painter) dim(text string) string {
	return p.render(dimStyle, text)
}
