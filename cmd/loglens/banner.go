package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tinytelemetry/loglens/internal/config"
	"github.com/tinytelemetry/loglens/internal/pipeline"
)

func printStartupBanner(w io.Writer, cfg config.Config, addr string, res *pipeline.Result) {
	re := lipgloss.NewRenderer(w)
	switch cfg.Color {
	case "always":
		re.SetColorProfile(termenv.ANSI256)
	case "never":
		re.SetColorProfile(termenv.Ascii)
	}

	dim := re.NewStyle().Foreground(lipgloss.Color("240"))
	green := re.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := re.NewStyle().Foreground(lipgloss.Color("39"))
	bold := re.NewStyle().Bold(true)

	check := green.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "    "+cyan.Bold(true).Render("loglens")+" "+dim.Render("v"+version))
	lines = append(lines, dim.Render("    ─────────────────────────────────"))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Inputs"))
	lines = append(lines, "")
	if len(res.Inputs) == 0 {
		lines = append(lines, fmt.Sprintf("    %s  %s", dim.Render("●"), dim.Render("no lines read")))
	}
	for _, in := range res.Inputs {
		lines = append(lines, fmt.Sprintf("    %s  %-20s %s", check, in.Input, dim.Render(fmt.Sprintf("%d lines", in.Lines))))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render("http://"+addr+"/api/summary")))
	lines = append(lines, "")
	lines = append(lines, dim.Render("    Press Ctrl+C to stop"))
	lines = append(lines, "")

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
