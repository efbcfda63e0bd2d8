package output

import (
	"context"

	"pfwidgets/internal/domain/entity"
)

// Notification is a flash message as shown to the user of the CLI.
type Notification struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

// ReporterPort presents command results.
type ReporterPort interface {
	ShowTree(ctx context.Context, tree entity.TreeContent) error
	ShowNotifications(ctx context.Context, msgs []Notification) error
	ShowPath(ctx context.Context, path string, ok bool)
	ShowValue(ctx context.Context, label string, value any) error
	ShowError(ctx context.Context, err error)
}
