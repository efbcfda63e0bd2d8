// Package snapshot turns a live page into a static fixture that the
// in-memory driver can load.
package snapshot

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// MaxOutputSize of the rendered page in bytes; 0 means unlimited.
	MaxOutputSize int
}

// DefaultCleanConfig drops what only matters to a running browser. Classes,
// inline styles and data-* attributes stay: widgets read them.
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "noscript", "iframe", "link", "meta", "head", "template",
	},
	AttrsToRemove: []string{
		"srcset", "sizes", "loading", "decoding", "fetchpriority", "nonce", "integrity",
	},
}

// Clean parses a page and renders it again without scripts, comments and
// event handlers.
func Clean(rawHTML string, cfg *CleanConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	for c := doc.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	out := sb.String()
	if cfg.MaxOutputSize > 0 && len(out) > cfg.MaxOutputSize {
		return "", fmt.Errorf("page is %d bytes, limit is %d", len(out), cfg.MaxOutputSize)
	}
	return out, nil
}

func cleanNode(n *html.Node, cfg *CleanConfig) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if slices.Contains(cfg.TagsToRemove, n.Data) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = slices.DeleteFunc(n.Attr, func(attr html.Attribute) bool {
		return shouldRemoveAttr(attr, cfg)
	})

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func shouldRemoveAttr(attr html.Attribute, cfg *CleanConfig) bool {
	if slices.Contains(cfg.AttrsToRemove, attr.Key) {
		return true
	}
	// event handlers
	return strings.HasPrefix(attr.Key, "on")
}
