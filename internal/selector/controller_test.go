package selector_test

import (
	"testing"

	"hierarchicalmenu/profilefield/internal/codec"
	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/selector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fieldName  = "profile_field_region"
	hiddenName = "profile_field_region"
)

const worldTree = `{"root":{"items":[
	{"id":"1","name":"Asia","childs":[
		{"id":"2","name":"Japan","childs":[{"id":"3","name":"Tokyo","childs":[]},{"id":"6","name":"Osaka","childs":[]}]},
		{"id":"4","name":"Korea","childs":[]}
	]},
	{"id":"5","name":"Europe","childs":[]}
]}}`

func mustTree(t *testing.T, raw string) domain.CategoryTree {
	t.Helper()
	parsed, err := domain.ParseTree(raw)
	require.NoError(t, err)
	return parsed
}

func values(opts []selector.Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

type cascadeFixture struct {
	form       *selector.MemoryForm
	controller *selector.Controller
	keys       []string
}

func newCascade(t *testing.T, raw string, levels int, current *domain.Selection, hidden string) *cascadeFixture {
	t.Helper()

	keys := domain.BuildLevelKeys(levels)
	specs := domain.BuildLevelSpecs(keys, nil, "")

	form := selector.NewMemoryForm()
	for _, spec := range specs {
		form.AddSelect(selector.LevelControlName(fieldName, spec.Key))
	}
	form.AddHidden(hiddenName, hidden)

	controller := selector.New(form, selector.Config{
		Root:      mustTree(t, raw),
		FieldName: fieldName,
		Current:   current,
		Hidden:    hiddenName,
		Levels:    specs,
	})
	controller.Init()

	return &cascadeFixture{form: form, controller: controller, keys: keys}
}

func (f *cascadeFixture) level(i int) *selector.Select {
	return f.form.SelectByName(selector.LevelControlName(fieldName, f.keys[i]))
}

func (f *cascadeFixture) hidden() string {
	return f.form.HiddenByName(hiddenName).Value()
}

func TestControllerPreselectsInitialSelection(t *testing.T) {
	tree := `{"root":{"items":[{"id":"1","name":"Asia","childs":[{"id":"2","name":"Japan","childs":[]}]}]}}`
	current := domain.SelectionOf(domain.BuildLevelKeys(2), "1", "")

	f := newCascade(t, tree, 2, &current, "")

	assert.Equal(t, "1", f.level(0).Value())
	assert.Equal(t, []string{"", "1"}, values(f.level(0).Options()))

	level1 := f.level(1).Options()
	require.Len(t, level1, 2)
	assert.Equal(t, domain.DefaultPlaceholder, level1[0].Text)
	assert.Equal(t, selector.Option{Value: "2", Text: "Japan"}, level1[1])

	assert.Equal(t, `{"level0":"1","level1":""}`, f.hidden())
}

func TestControllerClearsLevelsBelowChange(t *testing.T) {
	tree := `{"root":{"items":[{"id":"1","name":"Asia","childs":[{"id":"2","name":"Japan","childs":[]}]}]}}`
	current := domain.SelectionOf(domain.BuildLevelKeys(2), "1", "2")

	f := newCascade(t, tree, 2, &current, "")
	require.Equal(t, `{"level0":"1","level1":"2"}`, f.hidden())

	f.level(0).Choose("")

	assert.Equal(t, []string{""}, values(f.level(1).Options()))
	assert.Equal(t, "", f.level(1).Value())
	assert.Equal(t, `{"level0":"","level1":""}`, f.hidden())
}

func TestControllerCascade(t *testing.T) {
	f := newCascade(t, worldTree, 3, nil, "")

	assert.Equal(t, codec.Blank(f.keys), f.hidden())
	assert.Equal(t, []string{""}, values(f.level(1).Options()))

	f.level(0).Choose("1")
	assert.Equal(t, []string{"", "2", "4"}, values(f.level(1).Options()))
	assert.Equal(t, []string{""}, values(f.level(2).Options()))

	f.level(1).Choose("2")
	assert.Equal(t, []string{"", "3", "6"}, values(f.level(2).Options()))

	f.level(2).Choose("6")
	assert.Equal(t, `{"level0":"1","level1":"2","level2":"6"}`, f.hidden())

	f.level(0).Choose("5")
	assert.Equal(t, `{"level0":"5","level1":"","level2":""}`, f.hidden())
	assert.Equal(t, []string{""}, values(f.level(1).Options()))
	assert.Equal(t, []string{"5", "", ""}, f.controller.Selection().Values())
}

func TestControllerReadsHiddenWhenNoCurrent(t *testing.T) {
	f := newCascade(t, worldTree, 3, nil, `{"level0":"1","level1":"4"}`)

	assert.Equal(t, "1", f.level(0).Value())
	assert.Equal(t, "4", f.level(1).Value())
	assert.Equal(t, `{"level0":"1","level1":"4","level2":""}`, f.hidden())
}

func TestControllerCurrentWinsOverHidden(t *testing.T) {
	current := domain.SelectionOf(domain.BuildLevelKeys(3), "5")
	f := newCascade(t, worldTree, 3, &current, `{"level0":"1","level1":"4"}`)

	assert.Equal(t, `{"level0":"5","level1":"","level2":""}`, f.hidden())
}

func TestControllerInvalidHidden(t *testing.T) {
	f := newCascade(t, worldTree, 3, nil, "{bad")

	assert.Equal(t, "", f.level(0).Value())
	assert.Equal(t, codec.Blank(f.keys), f.hidden())
}

func TestControllerDropsInvalidPaths(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		want    []string
	}{
		{name: "unknown root", initial: []string{"9", "2", "3"}, want: []string{"", "", ""}},
		{name: "wrong parent", initial: []string{"5", "2", "3"}, want: []string{"5", "", ""}},
		{name: "gap", initial: []string{"1", "", "3"}, want: []string{"1", "", ""}},
		{name: "valid", initial: []string{"1", "2", "3"}, want: []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := domain.SelectionOf(domain.BuildLevelKeys(3), tt.initial...)
			f := newCascade(t, worldTree, 3, &current, "")
			assert.Equal(t, tt.want, f.controller.Selection().Values())
		})
	}
}

func TestControllerMissingControls(t *testing.T) {
	keys := domain.BuildLevelKeys(3)
	specs := domain.BuildLevelSpecs(keys, nil, "")

	form := selector.NewMemoryForm()
	form.AddSelect(selector.LevelControlName(fieldName, keys[0]))
	form.AddHidden(hiddenName, "")

	c := selector.New(form, selector.Config{Root: mustTree(t, worldTree), FieldName: fieldName, Hidden: hiddenName, Levels: specs})
	assert.NotPanics(t, c.Init)

	form.SelectByName(selector.LevelControlName(fieldName, keys[0])).Choose("1")
	assert.Equal(t, `{"level0":"1","level1":"","level2":""}`, form.HiddenByName(hiddenName).Value())
	assert.Empty(t, c.Options(1))
}

func TestControllerWithoutLevels(t *testing.T) {
	form := selector.NewMemoryForm()
	form.AddHidden(hiddenName, "untouched")

	c := selector.New(form, selector.Config{Root: mustTree(t, worldTree), Hidden: hiddenName})
	c.Init()

	assert.Equal(t, "untouched", form.HiddenByName(hiddenName).Value())
	assert.Zero(t, c.Levels())
}

func TestControllerInitIsIdempotent(t *testing.T) {
	f := newCascade(t, worldTree, 2, nil, "")
	f.controller.Init()

	changes := 0
	f.level(0).OnChange(func() { changes++ })
	f.level(0).Choose("1")

	assert.Equal(t, 1, changes)
	assert.Equal(t, []string{"", "2", "4"}, values(f.level(1).Options()))
}

func TestControllerHandoff(t *testing.T) {
	current := domain.SelectionOf(domain.BuildLevelKeys(2), "1", "4")
	cfg := selector.ConfigFromHandoff(domain.CascadeHandoff{
		Root:      mustTree(t, worldTree),
		FieldName: fieldName,
		Current:   &current,
		Hidden:    hiddenName,
		Levels:    domain.BuildLevelSpecs(domain.BuildLevelKeys(2), []string{"Continent", "Country"}, "Choose %s..."),
	})

	form := selector.NewMemoryForm()
	form.AddSelect(selector.LevelControlName(fieldName, "level0"))
	form.AddSelect(selector.LevelControlName(fieldName, "level1"))
	form.AddHidden(hiddenName, "")

	selector.New(form, cfg).Init()

	level1 := form.SelectByName(selector.LevelControlName(fieldName, "level1"))
	assert.Equal(t, "4", level1.Value())
	assert.Equal(t, "Choose Country...", level1.Options()[0].Text)
}
