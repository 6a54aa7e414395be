package models

import "time"

// Sex is the closed classification of the free-text sex column.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// InspectionRecord represents one ficha row of the backing spreadsheet.
type InspectionRecord struct {
	// ID is the inspection code, or "row-<offset>" when the code cell is empty.
	ID string `json:"id"`
	// DtInsp is the inspection date formatted DD/MM/YYYY, or the raw cell text
	// when it could not be parsed.
	DtInsp string `json:"dtInsp"`
	// CodInsp is the display code of the inspection.
	CodInsp string `json:"codInsp"`
	// RG is the identity document exactly as stored.
	RG string `json:"rg"`
	// Nome is the full name of the inspecionando.
	Nome string `json:"nome"`
	// CPF is the tax document, digits only, zero-padded to 11 characters.
	CPF string `json:"cpf"`
	// OM is the organizational unit.
	OM string `json:"om"`
	// Posto is the rank or post.
	Posto string `json:"posto"`
	// Quadro is the category or board.
	Quadro string `json:"quadro"`
	// Especialidade is the specialty.
	Especialidade string `json:"especialidade"`
	// DtNascimento is the birth date formatted DD/MM/YYYY (empty if absent).
	DtNascimento string `json:"dtNascimento"`
	// DtPraca is the enlistment date formatted DD/MM/YYYY (empty if absent).
	DtPraca string `json:"dtPraca"`
	// OriginalIndex is the 1-based row number in the backing spreadsheet.
	// It is the selection key and is unique within one fetch.
	OriginalIndex int `json:"originalIndex"`
	// Vinculo is the affiliation or bond type.
	Vinculo string `json:"vinculo"`
	// Finalidade is the free-text purpose of the inspection.
	Finalidade string `json:"finalidade"`
	// Grupo is the group label.
	Grupo string `json:"grupo"`
	// Idade is the age in whole elapsed years.
	Idade int `json:"idade"`
	// Controle is the archive identifier resolved from the person registry.
	Controle string `json:"controle"`
	// Sexo is the upper-cased free-text sex column.
	Sexo string `json:"sexo"`
	// SexCategory is the classification of Sexo.
	SexCategory Sex `json:"sexoCategoria"`

	// InspectedOn is the parsed inspection date (zero if unparsed).
	InspectedOn time.Time `json:"-"`
}
