// Package sidebar parses and validates hand-authored sidebar navigation trees.
package sidebar

import (
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// ItemType tags a raw sidebar item.
type ItemType string

const (
	ItemDoc      ItemType = "doc"
	ItemCategory ItemType = "category"
)

// Item is one authored sidebar item before validation against the registry.
type Item struct {
	Type      ItemType
	ID        string // doc items
	Label     string // optional for docs, required for categories
	Collapsed *bool
	Items     []Item
	Line      int
}

// Definition is one named sidebar as authored.
type Definition struct {
	Name  string
	Items []Item
}

// ErrInvalidSpec is returned for structurally malformed sidebar files.
var ErrInvalidSpec = ferrors.ValidationError("invalid sidebar specification").Build()

// Load reads and parses a sidebar file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read sidebar file").
			WithContext("path", path).Fatal().Build()
	}
	defs, err := Parse(data)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return defs, nil
}

// Parse decodes a YAML mapping of sidebar name to item list. Sidebar order
// follows the document.
//
//	tutorial:
//	  - type: doc
//	    id: intro
//	    label: Introduction
//	  - type: category
//	    label: Getting Started
//	    items:
//	      - getting-started/install
//	  - Reference: [api/client]   # shorthand category
func Parse(data []byte) ([]Definition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid sidebar specification").
			Fatal().UserAction().Build()
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return []Definition{}, nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, invalid(top, "", "top level must be a mapping of sidebar names to item lists")
	}

	defs := make([]Definition, 0, len(top.Content)/2)
	seen := make(map[string]struct{}, len(top.Content)/2)
	for i := 0; i+1 < len(top.Content); i += 2 {
		name := top.Content[i].Value
		if _, dup := seen[name]; dup {
			return nil, invalid(top.Content[i], name, "sidebar declared twice")
		}
		seen[name] = struct{}{}

		items, err := parseItems(top.Content[i+1], name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, Definition{Name: name, Items: items})
	}
	return defs, nil
}

func parseItems(n *yaml.Node, sidebar string) ([]Item, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(n, sidebar, "items must be a list")
	}
	items := make([]Item, 0, len(n.Content))
	for _, c := range n.Content {
		it, err := parseItem(c, sidebar)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func parseItem(n *yaml.Node, sidebar string) (Item, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return Item{}, invalid(n, sidebar, "empty document id")
		}
		return Item{Type: ItemDoc, ID: n.Value, Line: n.Line}, nil
	case yaml.MappingNode:
	default:
		return Item{}, invalid(n, sidebar, "item must be a document id or a mapping")
	}

	// {Label: [items]} shorthand.
	if len(n.Content) == 2 && !isItemKey(n.Content[0].Value) && n.Content[1].Kind == yaml.SequenceNode {
		children, err := parseItems(n.Content[1], sidebar)
		if err != nil {
			return Item{}, err
		}
		return Item{Type: ItemCategory, Label: n.Content[0].Value, Items: children, Line: n.Line}, nil
	}

	it := Item{Line: n.Line}
	var itemsNode *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "type":
			it.Type = ItemType(val.Value)
		case "id":
			it.ID = val.Value
		case "label":
			it.Label = val.Value
		case "collapsed":
			var b bool
			if err := val.Decode(&b); err != nil {
				return Item{}, invalid(val, sidebar, "collapsed must be a boolean")
			}
			it.Collapsed = &b
		case "items":
			itemsNode = val
		default:
			return Item{}, invalid(key, sidebar, "unknown item key "+key.Value)
		}
	}

	if it.Type == "" {
		if itemsNode != nil {
			it.Type = ItemCategory
		} else {
			it.Type = ItemDoc
		}
	}

	switch it.Type {
	case ItemDoc:
		if it.ID == "" {
			return Item{}, invalid(n, sidebar, "doc item requires an id")
		}
		if itemsNode != nil {
			return Item{}, invalid(n, sidebar, "doc item cannot have items")
		}
	case ItemCategory:
		if it.Label == "" {
			return Item{}, invalid(n, sidebar, "category requires a label")
		}
		if itemsNode == nil {
			return Item{}, invalid(n, sidebar, "category requires items")
		}
		children, err := parseItems(itemsNode, sidebar)
		if err != nil {
			return Item{}, err
		}
		it.Items = children
	default:
		return Item{}, invalid(n, sidebar, "unknown item type "+string(it.Type))
	}
	return it, nil
}

func isItemKey(k string) bool {
	switch k {
	case "type", "id", "label", "collapsed", "items":
		return true
	}
	return false
}

func invalid(n *yaml.Node, sidebar, reason string) error {
	e := ErrInvalidSpec.WithContext("reason", reason).WithContext("line", n.Line)
	if sidebar != "" {
		e = e.WithContext("sidebar", sidebar)
	}
	return e
}
