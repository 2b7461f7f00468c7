// Package frontmatter separates YAML front matter from markdown documents and
// decodes the fields docnav understands.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Fields are the front matter keys that influence navigation and routing.
type Fields struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	SidebarLabel    string `yaml:"sidebar_label"`
	SidebarPosition int    `yaml:"sidebar_position"`
	Slug            string `yaml:"slug"`
	Description     string `yaml:"description"`
	Draft           bool   `yaml:"draft"`
}

// Split separates `---` delimited YAML front matter from the markdown body.
// CRLF line endings are accepted. If the document has no front matter, had is
// false and body is the full input.
func Split(content []byte) (raw []byte, body []byte, had bool, err error) {
	nl := []byte("\n")
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = []byte("\r\n")
	}

	open := append([]byte("---"), nl...)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}
	rest := content[len(open):]

	// Empty front matter: the closing delimiter immediately follows.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	closing := append(append([]byte{}, nl...), []byte("---")...)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	raw = rest[:idx+len(nl)]
	after := rest[idx+len(closing):]
	switch {
	case len(after) == 0:
		return raw, []byte{}, true, nil
	case bytes.HasPrefix(after, nl):
		return raw, after[len(nl):], true, nil
	default:
		// "---" followed by text is not a delimiter line.
		return nil, nil, false, ErrMissingClosingDelimiter
	}
}

// Parse splits content and decodes the known fields. Unknown keys are kept
// in the returned map but ignored by Fields.
func Parse(content []byte) (Fields, map[string]any, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Fields{}, nil, nil, err
	}
	if !had || len(bytes.TrimSpace(raw)) == 0 {
		return Fields{}, map[string]any{}, body, nil
	}

	var fields Fields
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return Fields{}, nil, nil, err
	}
	all := map[string]any{}
	if err := yaml.Unmarshal(raw, &all); err != nil {
		return Fields{}, nil, nil, err
	}
	return fields, all, body, nil
}

// Raw returns the front matter block of content as-is (without delimiters),
// or nil when there is none.
func Raw(content []byte) []byte {
	raw, _, had, err := Split(content)
	if err != nil || !had {
		return nil
	}
	return raw
}
