package output

import "context"

// TreeScope is implemented by containers that host a tree control and know
// its id, so trees placed inside them need no explicit id.
type TreeScope interface {
	TreeID(ctx context.Context) (string, error)
}
