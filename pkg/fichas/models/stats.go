package models

// DashboardStats holds the counters shown above the fichas table.
type DashboardStats struct {
	// TotalFichas is the number of records retained for the day.
	TotalFichas int `json:"totalFichas"`
	// UniqueInspecionandos is the number of distinct non-zero CPFs.
	UniqueInspecionandos int `json:"uniqueInspecionandos"`
	// Homens counts records classified as male.
	Homens int `json:"homens"`
	// Mulheres counts records classified as female.
	Mulheres int `json:"mulheres"`
}
