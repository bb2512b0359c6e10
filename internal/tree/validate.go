package tree

import (
	"errors"
	"fmt"
	"strings"

	"hierarchicalmenu/profilefield/internal/domain"
)

var (
	ErrMaxLevelExceeded  = errors.New("maximum hierarchy level exceeded")
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
	ErrNoCategories      = errors.New("no categories defined")
)

// ValidateHierarchy checks that every node has a name and that nesting stays
// within maxLevels. The first violation found in pre-order is returned.
func ValidateHierarchy(t domain.CategoryTree, maxLevels int) error {
	if len(t.Items) == 0 {
		return ErrNoCategories
	}
	return validateLevel(t.Items, 0, maxLevels)
}

func validateLevel(items []domain.CategoryNode, level, maxLevels int) error {
	if level >= maxLevels {
		return fmt.Errorf("%w: at most %d levels are allowed", ErrMaxLevelExceeded, maxLevels)
	}

	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return ErrEmptyCategoryName
		}
		if item.HasChildren() {
			if err := validateLevel(item.Children, level+1, maxLevels); err != nil {
				return err
			}
		}
	}

	return nil
}
