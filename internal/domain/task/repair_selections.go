package task

const RepairSelectionsTaskType = "RepairSelectionsTask"

// RepairSelectionsTask re-validates every stored user selection of a field
// after its category tree changed.
type RepairSelectionsTask struct {
	FieldID int64  `json:"field_id"`
	Reason  string `json:"reason"` // "define", "import"
}

func (t *RepairSelectionsTask) TaskType() string {
	return RepairSelectionsTaskType
}

func (t *RepairSelectionsTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
