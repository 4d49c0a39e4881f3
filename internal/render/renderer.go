package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/loglens/internal/model"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted format names.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Renderer writes a finished Summary to an output stream.
type Renderer interface {
	Render(summary model.Summary) error
}

// Options tune rendering.
type Options struct {
	// TopN is the requested ranking size, shown in the text heading.
	TopN int
	// Color is "auto", "always" or "never"; text format only.
	Color string
}

// New returns the renderer for format writing to w.
func New(format string, w io.Writer, opts Options) (Renderer, error) {
	switch strings.ToLower(format) {
	case FormatText:
		return NewTextRenderer(w, opts), nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	case FormatYAML:
		return NewYAMLRenderer(w), nil
	default:
		return nil, fmt.Errorf("render: unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer
// ---------------------------------------------------------------------------

// JSONRenderer prints the summary as one indented JSON object.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes indented JSON to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(summary model.Summary) error {
	return r.enc.Encode(NewReport(summary))
}

// ---------------------------------------------------------------------------
// YAML Renderer
// ---------------------------------------------------------------------------

// YAMLRenderer prints the summary as a YAML document with the JSON key names.
type YAMLRenderer struct {
	w io.Writer
}

// NewYAMLRenderer returns a Renderer that writes YAML to w.
func NewYAMLRenderer(w io.Writer) *YAMLRenderer {
	return &YAMLRenderer{w: w}
}

func (r *YAMLRenderer) Render(summary model.Summary) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReport(summary)); err != nil {
		return fmt.Errorf("render: encode yaml: %w", err)
	}
	return enc.Close()
}
