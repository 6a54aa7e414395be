package backend

import (
	"context"
	"fmt"

	"github.com/ukaji3/fichas-go/pkg/fichas"
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
)

// Fixture serves two today-dated sample fichas through the real extraction
// pipeline and simulates processing. It is only used when explicitly chosen.
type Fixture struct {
	opts fichas.Options
}

// NewFixture returns a Fixture backend.
func NewFixture(opts fichas.Options) *Fixture {
	return &Fixture{opts: opts}
}

// SampleRows returns the fichas and registry sample sheets with every ficha
// dated on the calendar day of opts.Today().
func SampleRows(opts fichas.Options) (fichaRows, registryRows []models.Row) {
	today := opts.Today().Format("2006-01-02")

	header := make(models.Row, 21)
	for i := range header {
		header[i] = ""
	}
	header[0], header[1], header[2] = "DT_INSP", "COD_INSP", "RG"

	sample := func(code, rg, birth, cpf, sexo, posto, quadro, esp, nome, om, praca, finalidade, grupo string) models.Row {
		r := make(models.Row, 21)
		for i := range r {
			r[i] = ""
		}
		r[0], r[1], r[2], r[4], r[6], r[7] = today, code, rg, birth, cpf, sexo
		r[8], r[9], r[10], r[11], r[13], r[14] = posto, quadro, esp, nome, om, praca
		r[15], r[16], r[20] = "AERONAUTICA", finalidade, grupo
		return r
	}

	fichaRows = []models.Row{
		header,
		sample("INSP-8A99ED-20251229", "528389", "1984-09-05", "752.177.912-68", "MASC",
			"3S", "QESA", "SEF", "MARCELINO RODRIGUES BARROS JUNIOR", "HAMN", "2003-03-06",
			"G1 - Verificação de capacidade funcional", "IIB - DEMAIS"),
		sample("INSP-X921-2026", "123456", "1990-10-10", "111.222.333-44", "FEM",
			"1T", "QOEA", "COM", "ANA MARIA SILVEIRA", "VII COMAR", "2010-02-01",
			"G1 - Manutenção de Aptidão", "IIA - TRIPULANTES"),
	}
	registryRows = []models.Row{
		{"", "", "", "", "752.177.912-68", "FICHC59B82-20260108"},
		{"", "", "", "", "111.222.333-44", "ARQ-44552"},
	}
	return fichaRows, registryRows
}

func (x *Fixture) FetchInspections(ctx context.Context) (*models.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fichaRows, registryRows := SampleRows(x.opts)
	res := fichas.Extract(fichaRows, registryRows, x.opts)
	res.PrintURL = "#"
	return res, nil
}

func (x *Fixture) ProcessFichas(ctx context.Context, indices []int) (*models.ProcessingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(indices)
	return &models.ProcessingResult{
		Success: true,
		Message: fmt.Sprintf("(MODO SIMULAÇÃO) %d ficha(s) processada(s) com sucesso. "+
			"No ambiente real, elas seriam enviadas para a aba IMPRESSÃO.", n),
		Count:    &n,
		PrintURL: "#",
	}, nil
}
