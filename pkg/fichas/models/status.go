package models

// StatusKind tags the outcome shown to the operator.
type StatusKind string

const (
	StatusNone    StatusKind = "none"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the last user-visible outcome of a reload or submission.
type Status struct {
	Kind     StatusKind `json:"type"`
	Message  string     `json:"message"`
	PrintURL string     `json:"printUrl,omitempty"`
}

// NoStatus returns the reset status.
func NoStatus() Status {
	return Status{Kind: StatusNone}
}
