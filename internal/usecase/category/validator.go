package category

import (
	"context"
	"fmt"
	"strings"

	domainCategory "marketplace-backend/internal/domain/category"
	appErrors "marketplace-backend/pkg/errors"
)

// validateParent enforces the hierarchy rules at creation and move time:
// trunks forbid a parent, branches require a trunk parent, leaves require
// a branch parent.
func validateParent(ctx context.Context, repo domainCategory.Repository, level domainCategory.Level, parentID *uint) (*domainCategory.Category, error) {
	required, needsParent := level.RequiredParentLevel()

	if !needsParent {
		if parentID != nil {
			return nil, appErrors.Validation("Trunk categories cannot have a parent")
		}
		return nil, nil
	}

	if parentID == nil {
		return nil, appErrors.Validation(
			fmt.Sprintf("%s categories require a %s parent", title(level.String()), required.String()))
	}

	parent, err := repo.GetByID(ctx, *parentID)
	if err != nil {
		return nil, appErrors.NotFound("Parent category not found")
	}
	if parent.Level != required {
		return nil, appErrors.Validation(
			fmt.Sprintf("Invalid parent category level for %s: expected %s", level.String(), required.String()))
	}

	return parent, nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
