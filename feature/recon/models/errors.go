package models

// ValidationError reports a configuration or input problem detected before
// any work is attempted: no identity column selected, an empty mapping
// table, a missing sheet.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Msg
}
