// Package features renders the homepage feature grid.
package features

import (
	_ "embed"
	"html/template"
	"io"
	"strings"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

//go:embed assets/features.html.tmpl
var gridTemplate string

var grid = template.Must(template.New("features").Parse(gridTemplate))

// ErrMissingField is returned when a feature lacks a title or description.
var ErrMissingField = ferrors.ValidationError("feature is missing a required field").Build()

// Feature is one item of the grid.
type Feature struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Default returns the stock homepage features.
func Default() []Feature {
	return []Feature{
		{
			Title:       "Easy to Use",
			Description: "Build AI applications quickly by integrating pre-built marketplace graphs with just a few lines of code.",
		},
		{
			Title:       "Flexible Integration",
			Description: "Use graphs as standalone services or integrate them as subgraphs in your Langgraph applications.",
		},
		{
			Title:       "Production Ready",
			Description: "Built-in support for authentication, state management, and streaming responses for production deployments.",
		},
	}
}

// Validate fails on the first entry with a blank title or description.
func Validate(list []Feature) error {
	for i, f := range list {
		if strings.TrimSpace(f.Title) == "" {
			return ErrMissingField.WithContext("index", i).WithContext("field", "title")
		}
		if strings.TrimSpace(f.Description) == "" {
			return ErrMissingField.WithContext("index", i).WithContext("field", "description")
		}
	}
	return nil
}

// Render validates list and writes the grid. Nothing is written when validation fails.
func Render(w io.Writer, list []Feature) error {
	if err := Validate(list); err != nil {
		return err
	}
	var b strings.Builder
	if err := grid.Execute(&b, list); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to render features").Build()
	}
	_, err := io.WriteString(w, b.String())
	return err
}
