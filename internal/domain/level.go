package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

const (
	DefaultMaxLevels   = 3
	DefaultPlaceholder = "Choose..."
	LevelKeyPrefix     = "level"
	DefaultLeafKey     = "leaf"
)

var lineBreaks = regexp.MustCompile(`\r\n|\r|\n`)

// LevelSpec describes one dropdown of the cascading selector
type LevelSpec struct {
	Key         string `json:"key"`
	Placeholder string `json:"placeholder"`
}

// ResolveMaxLevels falls back to DefaultMaxLevels for anything below one
func ResolveMaxLevels(raw int) int {
	if raw < 1 {
		return DefaultMaxLevels
	}
	return raw
}

// BuildLevelKeys returns level0..levelN-1
func BuildLevelKeys(maxLevels int) []string {
	keys := make([]string, 0, maxLevels)
	for i := 0; i < maxLevels; i++ {
		keys = append(keys, fmt.Sprintf("%s%d", LevelKeyPrefix, i))
	}
	return keys
}

func DefaultLevelLabel(index int) string {
	return fmt.Sprintf("Level %d", index+1)
}

// ParseLabels splits newline separated input, trimming and dropping blanks
func ParseLabels(raw string) []string {
	if raw == "" {
		return []string{}
	}

	labels := make([]string, 0)
	for _, part := range lineBreaks.Split(raw, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

// ResolveLevelLabels accepts either a JSON array or newline separated text
// and returns exactly maxLevels labels, filling gaps with defaults.
func ResolveLevelLabels(raw string, maxLevels int) []string {
	var labels []string
	if raw != "" {
		var decoded []any
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			for _, v := range decoded {
				if v == nil {
					labels = append(labels, "")
					continue
				}
				labels = append(labels, fmt.Sprint(v))
			}
		} else {
			labels = lineBreaks.Split(raw, -1)
		}
	}

	resolved := make([]string, maxLevels)
	for i := 0; i < maxLevels; i++ {
		value := ""
		if i < len(labels) {
			value = strings.TrimSpace(labels[i])
		}
		if value == "" {
			value = DefaultLevelLabel(i)
		}
		resolved[i] = value
	}
	return resolved
}

// LabelsForDisplay turns stored labels back into the newline separated form
// shown in the definition form.
func LabelsForDisplay(raw string) string {
	if raw == "" {
		return ""
	}

	var decoded []any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		parts := make([]string, 0, len(decoded))
		for _, v := range decoded {
			if v == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	}

	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(raw)
}

// BuildLevelSpecs pairs keys with placeholders. A placeholder containing %s
// gets the level label substituted.
func BuildLevelSpecs(keys, labels []string, placeholder string) []LevelSpec {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	specs := make([]LevelSpec, 0, len(keys))
	for i, key := range keys {
		text := placeholder
		if strings.Contains(placeholder, "%s") {
			label := DefaultLevelLabel(i)
			if i < len(labels) && labels[i] != "" {
				label = labels[i]
			}
			text = fmt.Sprintf(placeholder, label)
		}
		specs = append(specs, LevelSpec{Key: key, Placeholder: text})
	}
	return specs
}

// LevelKeysOf extracts the ordered keys from level specs
func LevelKeysOf(levels []LevelSpec) []string {
	keys := make([]string, 0, len(levels))
	for _, l := range levels {
		keys = append(keys, l.Key)
	}
	return keys
}
