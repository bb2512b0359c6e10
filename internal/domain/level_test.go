package domain_test

import (
	"testing"

	"hierarchicalmenu/profilefield/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestResolveMaxLevels(t *testing.T) {
	assert.Equal(t, 3, domain.ResolveMaxLevels(0))
	assert.Equal(t, 3, domain.ResolveMaxLevels(-4))
	assert.Equal(t, 1, domain.ResolveMaxLevels(1))
	assert.Equal(t, 5, domain.ResolveMaxLevels(5))
}

func TestBuildLevelKeys(t *testing.T) {
	assert.Equal(t, []string{"level0", "level1", "level2"}, domain.BuildLevelKeys(3))
	assert.Empty(t, domain.BuildLevelKeys(0))
}

func TestResolveLevelLabels(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		n    int
		want []string
	}{
		{name: "empty", raw: "", n: 2, want: []string{"Level 1", "Level 2"}},
		{name: "json array", raw: `["Country","Region","City"]`, n: 3, want: []string{"Country", "Region", "City"}},
		{name: "json array short", raw: `["Country",null]`, n: 3, want: []string{"Country", "Level 2", "Level 3"}},
		{name: "lines", raw: "Country\r\n Region \n", n: 3, want: []string{"Country", "Region", "Level 3"}},
		{name: "truncated", raw: "A\nB\nC", n: 2, want: []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ResolveLevelLabels(tt.raw, tt.n))
		})
	}
}

func TestParseLabels(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, domain.ParseLabels("A\r\n\n  B  \r"))
	assert.Empty(t, domain.ParseLabels(""))
}

func TestLabelsForDisplay(t *testing.T) {
	assert.Equal(t, "A\nB", domain.LabelsForDisplay(`["A"," B ",""]`))
	assert.Equal(t, "A\nB", domain.LabelsForDisplay("A\r\nB"))
	assert.Equal(t, "", domain.LabelsForDisplay(""))
}

func TestBuildLevelSpecs(t *testing.T) {
	keys := domain.BuildLevelKeys(2)

	specs := domain.BuildLevelSpecs(keys, []string{"Country"}, "Choose %s...")
	assert.Equal(t, []domain.LevelSpec{
		{Key: "level0", Placeholder: "Choose Country..."},
		{Key: "level1", Placeholder: "Choose Level 2..."},
	}, specs)

	specs = domain.BuildLevelSpecs(keys, nil, "")
	assert.Equal(t, domain.DefaultPlaceholder, specs[1].Placeholder)

	assert.Equal(t, keys, domain.LevelKeysOf(specs))
}
