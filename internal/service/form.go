package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hierarchicalmenu/profilefield/internal/codec"
	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/selector"
	"hierarchicalmenu/profilefield/internal/tree"

	log "github.com/sirupsen/logrus"
)

var ErrSelectionRequired = errors.New("a selection is required")

// RenderField builds the hand-off the browser needs to show the field of
// one user. The stored selection wins over the field default.
func (s *Service) RenderField(ctx context.Context, fieldID, userID int64) (*domain.FormHandoff, error) {
	field, err := s.loadField(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	def := field.Definition

	current, err := s.currentSelection(ctx, field, userID)
	if err != nil {
		return nil, err
	}

	handoff := &domain.FormHandoff{
		FieldID:     def.ID,
		Mode:        def.DisplayMode,
		Label:       def.Name,
		Required:    def.Required,
		HiddenValue: codec.Encode(current),
	}

	switch def.DisplayMode {
	case domain.DisplayModeCascade:
		handoff.Cascade = &domain.CascadeHandoff{
			Root:      field.Tree,
			FieldName: def.InputName(),
			Current:   &current,
			Hidden:    def.InputName(),
			Levels:    domain.BuildLevelSpecs(field.Keys, field.Labels, s.fieldConfig.Placeholder),
		}
	default:
		catalog := s.leafCatalog(ctx, field)
		leafMap := catalog.LeafMap()
		handoff.Label = fmt.Sprintf("%s - %s", def.Name, field.LeafLabel())
		handoff.Leaf = &domain.LeafHandoff{
			Hidden:      def.InputName(),
			LeafKey:     field.LeafKey(),
			Selected:    domain.SelectedLeaf(current, field.LeafKey(), leafMap),
			LeafName:    selector.LevelControlName(def.InputName(), domain.DefaultLeafKey),
			Placeholder: s.leafPlaceholder(field),
			Options:     catalog.Options,
			LeafMap:     leafMap,
			LevelKeys:   field.Keys,
			LeafLabels:  catalog.LeafLabels(),
		}
	}

	return handoff, nil
}

// CascadeRequest is the state of the cascading dropdowns after the user
// changed ChangedLevel. A nil ChangedLevel only repairs Selection.
type CascadeRequest struct {
	Selection    domain.Selection `json:"selection"`
	ChangedLevel *int             `json:"changedLevel,omitempty"`
}

type CascadeLevel struct {
	Key         string            `json:"key"`
	Placeholder string            `json:"placeholder"`
	Value       string            `json:"value"`
	Options     []selector.Option `json:"options"`
}

type CascadeResult struct {
	Levels    []CascadeLevel   `json:"levels"`
	Selection domain.Selection `json:"selection"`
	Hidden    string           `json:"hidden"`
}

// Cascade runs the selector controller server side. Levels below the
// changed one are cleared, then every level is repopulated from its parent.
func (s *Service) Cascade(ctx context.Context, fieldID int64, req CascadeRequest) (*CascadeResult, error) {
	field, err := s.loadField(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	sel := req.Selection.Project(field.Keys)
	if req.ChangedLevel != nil {
		for i := *req.ChangedLevel + 1; i < len(field.Keys); i++ {
			sel.SetAt(i, "")
		}
	}

	fieldName := field.Definition.InputName()
	levels := domain.BuildLevelSpecs(field.Keys, field.Labels, s.fieldConfig.Placeholder)

	form := selector.NewMemoryForm()
	for _, l := range levels {
		form.AddSelect(selector.LevelControlName(fieldName, l.Key))
	}
	form.AddHidden(fieldName, "")

	controller := selector.New(form, selector.Config{
		Root:      field.Tree,
		FieldName: fieldName,
		Current:   &sel,
		Hidden:    fieldName,
		Levels:    levels,
	})
	controller.Init()

	result := &CascadeResult{
		Levels:    make([]CascadeLevel, 0, len(levels)),
		Selection: controller.Selection(),
		Hidden:    form.HiddenByName(fieldName).Value(),
	}
	for i, l := range levels {
		result.Levels = append(result.Levels, CascadeLevel{
			Key:         l.Key,
			Placeholder: l.Placeholder,
			Value:       result.Selection.Get(l.Key),
			Options:     controller.Options(i),
		})
	}

	return result, nil
}

// SubmitRequest is the posted form data of the field. Levels, when present,
// takes precedence over the hidden JSON in Data. A non-empty Leaf that is a
// known leaf id replaces both.
type SubmitRequest struct {
	Data   string            `json:"data"`
	Levels map[string]string `json:"levels,omitempty"`
	Leaf   *string           `json:"leaf,omitempty"`
}

// SubmitSelection normalises the posted data, stores it for the user and
// returns the stored JSON.
func (s *Service) SubmitSelection(ctx context.Context, fieldID, userID int64, req SubmitRequest) (string, error) {
	field, err := s.loadField(ctx, fieldID)
	if err != nil {
		return "", err
	}

	var sel domain.Selection
	if req.Levels != nil {
		sel = codec.Normalize(req.Levels, field.Keys)
	} else {
		sel = codec.Decode(req.Data, field.Keys)
	}
	sel = selector.Repair(field.Tree, field.Keys, sel)

	if req.Leaf != nil && *req.Leaf != "" {
		catalog := s.leafCatalog(ctx, field)
		if opt, ok := catalog.Lookup(*req.Leaf); ok {
			sel = opt.FullSelection.Project(field.Keys)
		} else {
			log.Debugf("Ignoring unknown leaf %q posted for field %d", *req.Leaf, fieldID)
		}
	}

	if field.Definition.Required && sel.IsBlank() {
		return "", ErrSelectionRequired
	}

	encoded := codec.Encode(sel)
	if err := s.userData.SaveUserData(ctx, fieldID, userID, encoded); err != nil {
		return "", err
	}

	return encoded, nil
}

// DisplayData renders the stored selection of a user as
// "Label:Name / Label:Name", skipping levels whose id is unknown.
func (s *Service) DisplayData(ctx context.Context, fieldID, userID int64) (string, error) {
	field, err := s.loadField(ctx, fieldID)
	if err != nil {
		return "", err
	}

	data, err := s.userData.GetUserData(ctx, fieldID, userID)
	if err != nil {
		return "", err
	}

	return FormatDisplay(field, codec.Decode(data, field.Keys), s.fieldConfig.LabelBudget), nil
}

// FormatDisplay renders sel the way profile pages show it
func FormatDisplay(field domain.Field, sel domain.Selection, budget int) string {
	if budget <= 0 {
		budget = tree.DefaultLabelBudget
	}

	index := tree.BuildByID(field.Tree)
	parts := make([]string, 0, len(field.Keys))
	for i, key := range field.Keys {
		node, ok := index.Node(sel.Get(key))
		if !ok {
			continue
		}
		label := ""
		if i < len(field.Labels) {
			label = field.Labels[i]
		}
		parts = append(parts, label+":"+tree.Truncate(node.Name, budget))
	}

	return strings.Join(parts, tree.LabelSeparator)
}

func (s *Service) currentSelection(ctx context.Context, field domain.Field, userID int64) (domain.Selection, error) {
	data, err := s.userData.GetUserData(ctx, field.Definition.ID, userID)
	if err != nil {
		return domain.Selection{}, err
	}
	if strings.TrimSpace(data) == "" {
		data = field.Definition.DefaultData
	}
	return codec.Decode(data, field.Keys), nil
}

func (s *Service) leafPlaceholder(field domain.Field) string {
	specs := domain.BuildLevelSpecs([]string{field.LeafKey()}, []string{field.LeafLabel()}, s.fieldConfig.Placeholder)
	return specs[0].Placeholder
}
