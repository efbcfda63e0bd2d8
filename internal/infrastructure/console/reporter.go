package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ReporterPort = (*Reporter)(nil)

// Reporter prints results to a terminal, or as JSON documents when asked.
type Reporter struct {
	out  io.Writer
	json bool
}

func NewReporterTo(out io.Writer, asJSON bool) *Reporter {
	return &Reporter{out: out, json: asJSON}
}

func (r *Reporter) ShowTree(ctx context.Context, tree entity.TreeContent) error {
	if r.json {
		return r.encode(tree.Value())
	}
	r.node(tree, "", "", true)
	return nil
}

func (r *Reporter) node(n entity.TreeContent, prefix, branch string, root bool) {
	text := color.New(color.Bold)
	if n.IsLeaf() {
		text = color.New(color.Reset)
	}
	fmt.Fprint(r.out, prefix+branch)
	text.Fprint(r.out, n.Text)
	if n.ImageRead && n.Image != "" {
		color.New(color.Faint).Fprintf(r.out, "  [%s]", n.Image)
	}
	fmt.Fprintln(r.out)

	childPrefix := prefix
	switch {
	case root:
	case branch == "└── ":
		childPrefix += "    "
	default:
		childPrefix += "│   "
	}
	for i, child := range n.Children {
		b := "├── "
		if i == len(n.Children)-1 {
			b = "└── "
		}
		r.node(child, childPrefix, b, false)
	}
}

var notificationColors = map[string]color.Attribute{
	"success": color.FgGreen,
	"info":    color.FgCyan,
	"warning": color.FgYellow,
	"error":   color.FgRed,
}

func (r *Reporter) ShowNotifications(ctx context.Context, msgs []output.Notification) error {
	if r.json {
		if msgs == nil {
			msgs = []output.Notification{}
		}
		return r.encode(msgs)
	}
	if len(msgs) == 0 {
		color.New(color.Faint).Fprintln(r.out, "No notifications")
		return nil
	}
	for _, m := range msgs {
		attr, ok := notificationColors[m.Type]
		if !ok {
			attr = color.FgWhite
		}
		color.New(attr, color.Bold).Fprintf(r.out, "%-8s", m.Type)
		fmt.Fprintf(r.out, " %s\n", m.Text)
	}
	return nil
}

func (r *Reporter) ShowPath(ctx context.Context, path string, ok bool) {
	if r.json {
		_ = r.encode(map[string]any{"path": path, "found": ok})
		return
	}
	if ok {
		color.New(color.FgGreen).Fprintf(r.out, "✓ %s\n", path)
		return
	}
	color.New(color.FgRed).Fprintf(r.out, "✗ %s\n", path)
}

func (r *Reporter) ShowValue(ctx context.Context, label string, value any) error {
	if r.json {
		return r.encode(map[string]any{label: value})
	}
	color.New(color.FgCyan).Fprintf(r.out, "%s: ", label)
	fmt.Fprintf(r.out, "%v\n", value)
	return nil
}

func (r *Reporter) ShowError(ctx context.Context, err error) {
	if r.json {
		_ = r.encode(map[string]string{"error": err.Error()})
		return
	}
	color.New(color.FgRed).Fprint(r.out, "❌ Error: ")
	color.New(color.Faint).Fprintln(r.out, truncate(err.Error(), 500))
}

func (r *Reporter) encode(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
