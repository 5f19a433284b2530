package logging

// Standard attribute keys.
const (
	FieldComponent    = "component"
	FieldPath         = "path"
	FieldDir          = "dir"
	FieldEventType    = "event_type"
	FieldErrorHint    = "error_hint"
	FieldImpact       = "impact"
	FieldDecisionType = "decision_type"
	FieldAction       = "action"
)
