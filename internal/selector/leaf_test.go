package selector_test

import (
	"testing"

	"hierarchicalmenu/profilefield/internal/codec"
	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/selector"
	"hierarchicalmenu/profilefield/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leafName = "profile_field_region[leaf]"

type leafFixture struct {
	form       *selector.MemoryForm
	controller *selector.LeafController
	keys       []string
}

func newLeaf(t *testing.T, hidden string, tooltip *selector.Tooltip) *leafFixture {
	t.Helper()

	keys := domain.BuildLevelKeys(3)
	catalog := tree.FlattenLeaves(mustTree(t, worldTree), keys, 0)

	form := selector.NewMemoryForm()
	form.AddSelect(leafName)
	form.AddHidden(hiddenName, hidden)

	lc := selector.NewLeaf(form, selector.LeafConfig{
		Hidden:      hiddenName,
		LeafName:    leafName,
		Placeholder: "Choose city...",
		Options:     catalog.Options,
		LeafMap:     catalog.LeafMap(),
		LevelKeys:   keys,
		LeafLabels:  catalog.LeafLabels(),
	}, tooltip)
	lc.Init()

	return &leafFixture{form: form, controller: lc, keys: keys}
}

func (f *leafFixture) control() *selector.Select {
	return f.form.SelectByName(leafName)
}

func (f *leafFixture) hidden() string {
	return f.form.HiddenByName(hiddenName).Value()
}

func TestLeafPopulatesOptions(t *testing.T) {
	f := newLeaf(t, "", nil)

	opts := f.control().Options()
	require.Len(t, opts, 5)
	assert.Equal(t, selector.Option{Value: "", Text: "Choose city..."}, opts[0])
	assert.Equal(t, []string{"", "3", "6", "4", "5"}, values(opts))
	assert.Equal(t, "Asia / Japan / Tokyo", opts[1].FullLabel)
	assert.Equal(t, codec.Blank(f.keys), f.hidden())
}

func TestLeafSelectWritesFullPath(t *testing.T) {
	f := newLeaf(t, "", nil)

	f.control().Choose("6")
	assert.Equal(t, `{"level0":"1","level1":"2","level2":"6"}`, f.hidden())

	f.control().Choose("4")
	assert.Equal(t, `{"level0":"1","level1":"4","level2":""}`, f.hidden())

	f.control().Choose("")
	assert.Equal(t, codec.Blank(f.keys), f.hidden())
}

func TestLeafRestoresStoredSelection(t *testing.T) {
	f := newLeaf(t, `{"level0":"1","level1":"2","level2":"3"}`, nil)

	assert.Equal(t, "3", f.control().Value())
	assert.Equal(t, `{"level0":"1","level1":"2","level2":"3"}`, f.hidden())
}

func TestLeafRestoresShallowLeaf(t *testing.T) {
	f := newLeaf(t, `{"level0":"1","level1":"4","level2":""}`, nil)

	assert.Equal(t, "4", f.control().Value())
	assert.Equal(t, `{"level0":"1","level1":"4","level2":""}`, f.hidden())
	assert.Equal(t, []string{"1", "4", ""}, f.controller.Selection().Values())

	root := newLeaf(t, `{"level0":"5","level1":"","level2":""}`, nil)
	assert.Equal(t, "5", root.control().Value())
	assert.Equal(t, `{"level0":"5","level1":"","level2":""}`, root.hidden())
}

func TestLeafIgnoresPartialPath(t *testing.T) {
	// Japan has children, so Asia / Japan is not a leaf path
	f := newLeaf(t, `{"level0":"1","level1":"2","level2":""}`, nil)

	assert.Equal(t, "", f.control().Value())
	assert.Equal(t, codec.Blank(f.keys), f.hidden())
}

func TestLeafUnknownIDResetsHidden(t *testing.T) {
	f := newLeaf(t, `{"level0":"1","level1":"2","level2":"3"}`, nil)

	opts := append(f.control().Options(), selector.Option{Value: "ghost", Text: "Ghost"})
	f.control().SetOptions(opts)
	f.control().Choose("ghost")

	assert.Equal(t, codec.Blank(f.keys), f.hidden())
	assert.True(t, f.controller.Selection().IsBlank())
}

func TestLeafResolve(t *testing.T) {
	f := newLeaf(t, `{"level0":"x","level1":"y","level2":"z"}`, nil)

	// z is not an option, so the control falls back to the placeholder
	assert.Equal(t, "", f.control().Value())
	assert.True(t, f.controller.Resolve("").IsBlank())
	assert.Equal(t, []string{"5", "", ""}, f.controller.Resolve("5").Values())
	assert.True(t, f.controller.Resolve("nope").IsBlank())
}

func TestLeafKeepsFallbackForUnmappedLeaf(t *testing.T) {
	keys := domain.BuildLevelKeys(2)
	form := selector.NewMemoryForm()
	control := form.AddSelect(leafName)
	control.SetOptions([]selector.Option{{Value: ""}, {Value: "legacy", Text: "Legacy"}})
	form.AddHidden(hiddenName, `{"level0":"old","level1":"legacy"}`)

	lc := selector.NewLeaf(form, selector.LeafConfig{
		Hidden:    hiddenName,
		LeafName:  leafName,
		LevelKeys: keys,
	}, nil)
	lc.Init()

	assert.Equal(t, "legacy", control.Value())
	assert.Equal(t, `{"level0":"old","level1":"legacy"}`, form.HiddenByName(hiddenName).Value())
}

func TestLeafMissingControls(t *testing.T) {
	form := selector.NewMemoryForm()
	form.AddHidden(hiddenName, "kept")

	lc := selector.NewLeaf(form, selector.LeafConfig{Hidden: hiddenName, LeafName: leafName}, nil)
	assert.NotPanics(t, lc.Init)
	assert.Equal(t, "kept", form.HiddenByName(hiddenName).Value())
	assert.Nil(t, lc.Tooltip())
}

func TestLeafHandoff(t *testing.T) {
	keys := domain.BuildLevelKeys(3)
	catalog := tree.FlattenLeaves(mustTree(t, worldTree), keys, 0)

	cfg := selector.LeafConfigFromHandoff(domain.LeafHandoff{
		Hidden:    hiddenName,
		LeafKey:   "level2",
		LeafName:  leafName,
		Options:   catalog.Options,
		LeafMap:   catalog.LeafMap(),
		LevelKeys: keys,
	})

	form := selector.NewMemoryForm()
	form.AddSelect(leafName)
	form.AddHidden(hiddenName, "")
	lc := selector.NewLeaf(form, cfg, nil)
	lc.Init()

	form.SelectByName(leafName).Choose("3")
	assert.Equal(t, []string{"1", "2", "3"}, lc.Selection().Values())
	assert.Equal(t, domain.DefaultPlaceholder, form.SelectByName(leafName).Options()[0].Text)
}
