package entity

// TreeContent is the recursive result of reading a tree. Image is only set
// when images were requested.
type TreeContent struct {
	Text     string
	Image    string
	Children []TreeContent
	// ImageRead is set when the image was requested, even if none was found.
	ImageRead bool
}

// NewTreeContent builds a node; withImage marks whether the image was read.
func NewTreeContent(text, image string, withImage bool, children []TreeContent) TreeContent {
	return TreeContent{Text: text, Image: image, Children: children, ImageRead: withImage}
}

func (c TreeContent) IsLeaf() bool { return len(c.Children) == 0 }

// Value returns the nested list shape: a leaf is its text (or an
// [image, text] pair), a branch is [own, [children...]].
func (c TreeContent) Value() any {
	var own any = c.Text
	if c.ImageRead {
		own = []any{c.Image, c.Text}
	}
	if c.IsLeaf() {
		return own
	}

	children := make([]any, 0, len(c.Children))
	for _, child := range c.Children {
		children = append(children, child.Value())
	}
	return []any{own, children}
}

// Leaf and Branch are shorthands for building expected contents.
func Leaf(text string) TreeContent { return TreeContent{Text: text} }

func Branch(text string, children ...TreeContent) TreeContent {
	return TreeContent{Text: text, Children: children}
}
