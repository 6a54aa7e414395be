package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/fichas-go/pkg/fichas/models"
)

// HeaderSentinel is the first cell of the fichas header row.
const HeaderSentinel = "DT_INSP"

// Fichas sheet columns (0-based). Columns 3, 5, 12 and 17-19 are unused.
const (
	colDtInsp        = 0
	colCodInsp       = 1
	colRG            = 2
	colDtNascimento  = 4
	colCPF           = 6
	colSexo          = 7
	colPosto         = 8
	colQuadro        = 9
	colEspecialidade = 10
	colNome          = 11
	colOM            = 13
	colDtPraca       = 14
	colVinculo       = 15
	colFinalidade    = 16
	colGrupo         = 20

	// MinColumns is the shortest row the mapper accepts.
	MinColumns = 2
)

// MapOptions configures MapInspections.
type MapOptions struct {
	// Now is the reference time for ages.
	Now time.Time
	// Location is the time zone dates are interpreted in.
	Location *time.Location
	// Controls resolves archive identifiers. May be nil.
	Controls ControlIndex
}

// MapResult holds mapped records and row accounting.
type MapResult struct {
	Records       []models.InspectionRecord
	Skipped       int
	HeaderSkipped bool
}

// HasHeader reports whether the first row is the fichas header.
func HasHeader(rows []models.Row) bool {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return false
	}
	return strings.TrimSpace(CellString(rows[0][0])) == HeaderSentinel
}

// MapInspections converts raw fichas rows into records.
// Nil rows and rows shorter than MinColumns are skipped and counted.
// Each record's OriginalIndex is its 1-based row number in the sheet.
func MapInspections(rows []models.Row, opts MapOptions) MapResult {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var res MapResult
	start := 0
	if HasHeader(rows) {
		start = 1
		res.HeaderSkipped = true
	}

	for offset, row := range rows[start:] {
		if row == nil || len(row) < MinColumns {
			res.Skipped++
			continue
		}
		rec := mapRow(row, offset, loc, now)
		rec.OriginalIndex = offset + start + 1
		rec.Controle = opts.Controls.Lookup(rec.CPF)
		res.Records = append(res.Records, rec)
	}

	return res
}

func mapRow(row models.Row, offset int, loc *time.Location, now time.Time) models.InspectionRecord {
	text := func(col int) string { return CellString(row.Cell(col)) }

	rec := models.InspectionRecord{
		CodInsp:       text(colCodInsp),
		RG:            text(colRG),
		Nome:          text(colNome),
		CPF:           NormalizeDocument(row.Cell(colCPF)),
		OM:            text(colOM),
		Posto:         text(colPosto),
		Quadro:        text(colQuadro),
		Especialidade: text(colEspecialidade),
		Vinculo:       text(colVinculo),
		Finalidade:    text(colFinalidade),
		Grupo:         text(colGrupo),
		Sexo:          strings.ToUpper(text(colSexo)),
	}
	rec.SexCategory = ClassifySex(rec.Sexo)

	rec.ID = rec.CodInsp
	if rec.ID == "" {
		rec.ID = "row-" + strconv.Itoa(offset)
	}

	dt := row.Cell(colDtInsp)
	if t, ok := ParseDate(dt, loc); ok {
		rec.InspectedOn = t
		rec.DtInsp = FormatDate(t)
	} else {
		rec.DtInsp = CellString(dt)
	}

	if birth := row.Cell(colDtNascimento); !isEmptyCell(birth) {
		rec.DtNascimento = DisplayDate(birth, loc)
		if t, ok := ParseDate(birth, loc); ok {
			rec.Idade = Age(t, now)
		}
	}
	if praca := row.Cell(colDtPraca); !isEmptyCell(praca) {
		rec.DtPraca = DisplayDate(praca, loc)
	}

	return rec
}

func isEmptyCell(v interface{}) bool {
	return strings.TrimSpace(CellString(v)) == ""
}
