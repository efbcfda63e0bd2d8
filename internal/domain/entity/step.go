package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// Step is one element of a tree path. It matches node text either literally
// or with a regular expression anchored at the start of the text, and can
// additionally require a node image.
type Step struct {
	text  string
	re    *regexp.Regexp
	image string
}

// Text returns a step matching node text exactly.
func Text(s string) Step {
	return Step{text: s}
}

// Regexp returns a step matching node text that starts with a match of re.
func Regexp(re *regexp.Regexp) Step {
	return Step{re: re}
}

// MustRegexp compiles expr and panics if it is invalid.
func MustRegexp(expr string) Step {
	return Regexp(regexp.MustCompile(expr))
}

// WithImage returns a copy of the step that also requires the node image to
// equal image.
func (s Step) WithImage(image string) Step {
	s.image = image
	return s
}

func (s Step) IsLiteral() bool { return s.re == nil }

func (s Step) HasImage() bool { return s.image != "" }

func (s Step) Image() string { return s.image }

// Literal returns the text of a literal step and "" for regexp steps.
func (s Step) Literal() string { return s.text }

// MatchText reports whether text satisfies the text part of the step.
func (s Step) MatchText(text string) bool {
	if s.re == nil {
		return s.text == text
	}
	loc := s.re.FindStringIndex(text)
	return loc != nil && loc[0] == 0
}

// String renders the step as it appears in error messages: literal text,
// r'expr' for regexps and a trailing [image] when an image is required.
func (s Step) String() string {
	repr := s.text
	if s.re != nil {
		repr = "r'" + s.re.String() + "'"
	}
	if s.image == "" {
		return repr
	}
	return fmt.Sprintf("%s[%s]", repr, s.image)
}

// Texts converts plain strings into literal steps.
func Texts(items ...string) []Step {
	steps := make([]Step, 0, len(items))
	for _, item := range items {
		steps = append(steps, Text(item))
	}
	return steps
}

// PrettyPath joins steps with "/".
func PrettyPath(path []Step) string {
	parts := make([]string, 0, len(path))
	for _, step := range path {
		parts = append(parts, step.String())
	}
	return strings.Join(parts, "/")
}

// ParseStep builds a step from its command line form:
//
//	text           literal text
//	re:expr        regular expression
//	text:text      literal text taken verbatim, for text with | or re:
//	image|text     text (or re:expr, text:text) that also requires image
func ParseStep(raw string) (Step, error) {
	if text, ok := strings.CutPrefix(raw, "text:"); ok {
		return Text(text), nil
	}
	image := ""
	if i := strings.Index(raw, "|"); i > 0 {
		image, raw = raw[:i], raw[i+1:]
	}

	var step Step
	if text, ok := strings.CutPrefix(raw, "text:"); ok {
		step = Text(text)
	} else if expr, ok := strings.CutPrefix(raw, "re:"); ok {
		re, err := regexp.Compile(expr)
		if err != nil {
			return Step{}, &ConfigError{Widget: "step", Reason: fmt.Sprintf("invalid regexp %q: %v", expr, err)}
		}
		step = Regexp(re)
	} else {
		step = Text(raw)
	}

	if image != "" {
		step = step.WithImage(image)
	}
	return step, nil
}

// ParsePath parses every element with ParseStep.
func ParsePath(raw []string) ([]Step, error) {
	steps := make([]Step, 0, len(raw))
	for _, r := range raw {
		step, err := ParseStep(r)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}
