package task

const RebuildLeavesTaskType = "RebuildLeavesTask"

// RebuildLeavesTask recomputes the cached leaf catalog of a field
type RebuildLeavesTask struct {
	FieldID int64 `json:"field_id"`
}

func (t *RebuildLeavesTask) TaskType() string {
	return RebuildLeavesTaskType
}

func (t *RebuildLeavesTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
