package models

// FetchResult is what a backend returns for one fetch of the day's fichas.
type FetchResult struct {
	// Inspections contains the records retained for the day.
	Inspections []InspectionRecord `json:"inspections"`
	// Stats is computed over Inspections.
	Stats DashboardStats `json:"stats"`
	// PrintURL is an optional follow-up link.
	PrintURL string `json:"printUrl"`
	// SkippedRows counts malformed rows dropped by the mapper.
	SkippedRows int `json:"skippedRows"`
	// DuplicateControls counts registry documents seen more than once.
	DuplicateControls int `json:"duplicateControls"`
}

// ProcessingResult is the structured reply of the "generate fichas" operation.
type ProcessingResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Count    *int   `json:"count,omitempty"`
	PrintURL string `json:"printUrl,omitempty"`
}
