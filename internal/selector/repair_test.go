package selector_test

import (
	"fmt"
	"testing"

	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/selector"
	"hierarchicalmenu/profilefield/internal/tree"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

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
					Name:     fmt.Sprintf("Node %d", next),
					Children: gen(level + 1),
				})
			}
			return nodes
		}
		return domain.CategoryTree{Items: gen(0)}
	})
}

func TestRepair(t *testing.T) {
	keys := domain.BuildLevelKeys(3)
	world := mustTree(t, worldTree)

	repaired := selector.Repair(world, keys, domain.SelectionOf(keys, "1", "4", "3"))
	assert.Equal(t, []string{"1", "4", ""}, repaired.Values())

	repaired = selector.Repair(world, keys, domain.SelectionOf([]string{"level0"}, "1"))
	assert.Equal(t, keys, repaired.Keys())
	assert.Equal(t, []string{"1", "", ""}, repaired.Values())

	repaired = selector.Repair(domain.CategoryTree{}, keys, domain.SelectionOf(keys, "1"))
	assert.True(t, repaired.IsBlank())
}

// The repaired selection keeps the longest valid prefix of the input and
// blanks everything after it.
func TestRepairLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		levels := rapid.IntRange(1, 4).Draw(t, "levels")
		generated := genTree(levels).Draw(t, "tree")
		keys := domain.BuildLevelKeys(levels)

		candidates := []string{"", "ghost"}
		generated.Walk(func(node domain.CategoryNode, _ int) bool {
			candidates = append(candidates, node.ID)
			return true
		})
		values := rapid.SliceOfN(rapid.SampledFrom(candidates), levels, levels).Draw(t, "values")
		input := domain.SelectionOf(keys, values...)

		ix := tree.BuildByID(generated)
		valid := 0
		parent := ""
		for valid < levels && input.At(valid) != "" && ix.IsChild(parent, input.At(valid)) {
			parent = input.At(valid)
			valid++
		}

		repaired := selector.Repair(generated, keys, input)
		for i := 0; i < levels; i++ {
			want := ""
			if i < valid {
				want = input.At(i)
			}
			if repaired.At(i) != want {
				t.Fatalf("level %d: want %q, got %q (input %v, repaired %v)", i, want, repaired.At(i), input.Values(), repaired.Values())
			}
		}

		again := selector.Repair(generated, keys, repaired)
		if !again.Equal(repaired) {
			t.Fatalf("repair is not idempotent: %v then %v", repaired.Values(), again.Values())
		}
	})
}
