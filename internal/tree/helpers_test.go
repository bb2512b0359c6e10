package tree_test

import (
	"fmt"

	"hierarchicalmenu/profilefield/internal/domain"

	"pgregory.net/rapid"
)

// genTree draws a tree of at most depth levels with unique ids
func genTree(depth int) *rapid.Generator[domain.CategoryTree] {
	return rapid.Custom(func(t *rapid.T) domain.CategoryTree {
		next := 0
		var gen func(level int) []domain.CategoryNode
		gen = func(level int) []domain.CategoryNode {
			if level >= depth {
				return []domain.CategoryNode{}
			}
			n := rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("width%d", level))
			nodes := make([]domain.CategoryNode, 0, n)
			for i := 0; i < n; i++ {
				next++
				nodes = append(nodes, domain.CategoryNode{
					ID:       fmt.Sprintf("n%d", next),
					Name:     rapid.StringMatching(`[A-Za-z]{1,12}`).Draw(t, "name"),
					Children: gen(level + 1),
				})
			}
			return nodes
		}
		return domain.CategoryTree{Items: gen(0)}
	})
}
