package widget

import (
	"context"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
)

const iconCandidates = `.//*[contains(@class, "pficon") or contains(@class, "fa")]`

// IconFromElement returns the known icon drawn inside el. It reports false
// when there is no icon, more than one, or one that is not known.
func IconFromElement(ctx context.Context, browser output.BrowserPort, el output.Element) (entity.Icon, bool, error) {
	els, err := browser.Elements(ctx, iconCandidates, el)
	if err != nil {
		return "", false, err
	}
	if len(els) != 1 {
		return "", false, nil
	}
	classes, err := browser.Classes(ctx, els[0])
	if err != nil {
		return "", false, err
	}
	icon, ok := entity.IconFromClasses(classes)
	return icon, ok, nil
}
