package parser

import (
	"testing"

	"github.com/ukaji3/fichas-go/pkg/fichas/models"
)

func TestClassifySex(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Sex
	}{
		{"MASC", models.SexMale},
		{"masculino", models.SexMale},
		{"M", models.SexMale},
		{"Homem", models.SexMale},
		{"FEM", models.SexFemale},
		{"FEMININO", models.SexFemale},
		{"Feminino", models.SexFemale},
		{"f", models.SexFemale},
		{"Mulher", models.SexFemale},
		{"femenino", models.SexFemale},
		{"FEM / MASC", models.SexFemale},
		{"sexo: fem", models.SexFemale},
		{"", models.SexUnknown},
		{"   ", models.SexUnknown},
		{"N/I", models.SexUnknown},
	}

	for _, tt := range tests {
		if got := ClassifySex(tt.input); got != tt.expected {
			t.Errorf("ClassifySex(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
