package render

import (
	"charm.land/lipgloss/v2"

	"github.com/nkootstra/kvwire/internal/protocol"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray

	tagStyles = map[protocol.Tag]lipgloss.Style{
		protocol.TagNil:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")), // gray
		protocol.TagError:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
		protocol.TagString: lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		protocol.TagInt:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
		protocol.TagDouble: lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
		protocol.TagArray:  lipgloss.NewStyle().Foreground(lipgloss.Color("5")), // magenta
		protocol.TagKV:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // yellow
	}
)

// Styler applies colours, or nothing when plain.
type Styler struct {
	Plain bool
}

func (s Styler) tag(t protocol.Tag, text string) string {
	if s.Plain {
		return text
	}
	if style, ok := tagStyles[t]; ok {
		return style.Render(text)
	}
	return text
}

func (s Styler) apply(style lipgloss.Style, text string) string {
	if s.Plain {
		return text
	}
	return style.Render(text)
}

// Header renders a section title such as "== GET key `age` ==".
func (s Styler) Header(title string) string {
	return s.apply(headerStyle, "== "+title+" ==")
}

// Failure renders a client-side error.
func (s Styler) Failure(err error) string {
	return s.apply(errorStyle, "[ERROR] "+err.Error())
}

// Dim renders secondary text such as hints and prompts.
func (s Styler) Dim(text string) string {
	return s.apply(dimStyle, text)
}
