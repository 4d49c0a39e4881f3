package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tinytelemetry/loglens/internal/model"
	"github.com/tinytelemetry/loglens/internal/timestamp"
)

// TextRenderer prints an aligned, human-readable summary. Colours are only
// emitted when w is a terminal, unless forced with Color "always".
type TextRenderer struct {
	w    io.Writer
	topN int

	title   lipgloss.Style
	heading lipgloss.Style
	dim     lipgloss.Style
	levels  map[model.Level]lipgloss.Style
}

// NewTextRenderer returns a Renderer that writes text to w.
func NewTextRenderer(w io.Writer, opts Options) *TextRenderer {
	re := lipgloss.NewRenderer(w)
	switch strings.ToLower(opts.Color) {
	case "always":
		re.SetColorProfile(termenv.ANSI256)
	case "never":
		re.SetColorProfile(termenv.Ascii)
	}

	return &TextRenderer{
		w:       w,
		topN:    opts.TopN,
		title:   re.NewStyle().Foreground(lipgloss.Color("39")).Bold(true), // cyan
		heading: re.NewStyle().Bold(true),
		dim:     re.NewStyle().Foreground(lipgloss.Color("240")),
		levels: map[model.Level]lipgloss.Style{
			model.LevelCritical: re.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("196")).
				Bold(true), // white on red
			model.LevelError:   re.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			model.LevelWarn:    re.NewStyle().Foreground(lipgloss.Color("220")),
			model.LevelInfo:    re.NewStyle().Foreground(lipgloss.Color("42")),
			model.LevelDebug:   re.NewStyle().Foreground(lipgloss.Color("245")).Faint(true),
			model.LevelUnknown: re.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}

func (r *TextRenderer) Render(s model.Summary) error {
	var lines []string

	lines = append(lines, r.title.Render("=== loglens summary ==="))
	lines = append(lines, fmt.Sprintf("Total lines: %d", s.TotalLines))
	if s.TimeWindow != nil {
		lines = append(lines, fmt.Sprintf("Time window: %s  ->  %s",
			timestamp.Format(s.TimeWindow.Start), timestamp.Format(s.TimeWindow.End)))
	} else {
		lines = append(lines, "Time window: "+r.dim.Render("n/a"))
	}

	lines = append(lines, "")
	lines = append(lines, r.heading.Render("Levels:"))
	for _, l := range model.Levels {
		name := r.levels[l].Render(fmt.Sprintf("%-8s", l.String()))
		lines = append(lines, fmt.Sprintf("  %s: %d", name, s.LevelCounts[l]))
	}

	if len(s.SourceCounts) > 0 {
		lines = append(lines, "")
		lines = append(lines, r.heading.Render("Sources (service/app/module):"))
		for _, sc := range RankSources(s.SourceCounts) {
			lines = append(lines, fmt.Sprintf("  %-20s: %d", sc.Source, sc.Count))
		}
	}

	topN := r.topN
	if topN <= 0 {
		topN = len(s.TopMessages)
	}
	lines = append(lines, "")
	lines = append(lines, r.heading.Render(fmt.Sprintf("Top %d messages:", topN)))
	if len(s.TopMessages) == 0 {
		lines = append(lines, "  "+r.dim.Render("(none)"))
	}
	for _, m := range s.TopMessages {
		lines = append(lines, fmt.Sprintf("  (%dx) %s", m.Count, m.Message))
	}

	_, err := fmt.Fprintln(r.w, strings.Join(lines, "\n"))
	return err
}
