package features

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Default(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Default()))

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, `<div class="col col--4">`))
	assert.Contains(t, out, "<h3>Easy to Use</h3>")
	assert.Contains(t, out, "<h3>Flexible Integration</h3>")
	assert.Contains(t, out, "<h3>Production Ready</h3>")
	assert.True(t, strings.HasPrefix(out, `<section class="features">`))
}

func TestRender_EscapesHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []Feature{{Title: "<script>", Description: "a & b"}}))
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Contains(t, buf.String(), "a &amp; b")
}

func TestRender_MissingFieldFailsFast(t *testing.T) {
	tests := []struct {
		name  string
		list  []Feature
		field string
	}{
		{"missing title", []Feature{{Description: "d"}}, "field=title"},
		{"missing description", []Feature{{Title: "t"}, {Title: "x", Description: "  "}}, "field=description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, tt.list)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingField))
			assert.Contains(t, err.Error(), tt.field)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil))
	assert.NotContains(t, buf.String(), "col--4")
}
