package backend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ukaji3/fichas-go/pkg/fichas"
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
	"github.com/ukaji3/fichas-go/pkg/fichas/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Default sheet names of the backing workbook.
const (
	DefaultFichasSheet   = "FICHAS"
	DefaultRegistrySheet = "INSPECIONANDOS"
	DefaultPrintSheet    = "IMPRESSAO"
)

// WorkbookConfig points Workbook at a local .xlsx file.
type WorkbookConfig struct {
	Path          string
	FichasSheet   string
	RegistrySheet string
	// PrintSheet receives processed rows. It is created on first use.
	PrintSheet string
	// PrintURL is returned as the follow-up link, if set.
	PrintURL string
}

// Workbook is a backend over a local workbook. The file is reopened on every
// call so edits made by other programs between calls are picked up.
type Workbook struct {
	cfg    WorkbookConfig
	opts   fichas.Options
	logger *zap.Logger

	// mu serializes read-modify-save cycles on the file.
	mu sync.Mutex
}

// NewWorkbook returns a Workbook backend, filling in default sheet names.
func NewWorkbook(cfg WorkbookConfig, opts fichas.Options, logger *zap.Logger) (*Workbook, error) {
	if cfg.Path == "" {
		return nil, errors.New("workbook backend requires a path")
	}
	if cfg.FichasSheet == "" {
		cfg.FichasSheet = DefaultFichasSheet
	}
	if cfg.RegistrySheet == "" {
		cfg.RegistrySheet = DefaultRegistrySheet
	}
	if cfg.PrintSheet == "" {
		cfg.PrintSheet = DefaultPrintSheet
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workbook{cfg: cfg, opts: opts, logger: logger}, nil
}

// FetchInspections reads the fichas and registry sheets. A missing registry
// sheet leaves every controle empty.
func (w *Workbook) FetchInspections(ctx context.Context) (*models.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.cfg.Path)
	if err != nil {
		return nil, fichas.NewBoundaryError("fetch", err)
	}
	defer f.Close()

	fichaRows, err := readSheet(f, w.cfg.FichasSheet)
	if err != nil {
		return nil, fichas.NewBoundaryError("fetch", err)
	}

	registryRows, err := readSheet(f, w.cfg.RegistrySheet)
	if err != nil {
		if !errors.Is(err, fichas.ErrSheetNotFound) {
			return nil, fichas.NewBoundaryError("fetch", err)
		}
		w.logger.Warn("Registry sheet missing, controles left empty",
			zap.String("sheet", w.cfg.RegistrySheet))
		registryRows = nil
	}

	res := fichas.Extract(fichaRows, registryRows, w.opts)
	res.PrintURL = w.cfg.PrintURL
	return res, nil
}

// ProcessFichas appends the selected fichas rows to the print sheet under a
// new batch id and saves the workbook. Indices that do not address a
// non-empty data row, including the header row, yield a structured failure
// and nothing is written.
func (w *Workbook) ProcessFichas(ctx context.Context, indices []int) (*models.ProcessingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.cfg.Path)
	if err != nil {
		return nil, fichas.NewBoundaryError("process", err)
	}
	defer f.Close()

	source, err := f.GetRows(w.cfg.FichasSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fichas.NewBoundaryError("process", sheetError(w.cfg.FichasSheet, err))
	}

	selected := slices.Clone(indices)
	slices.Sort(selected)
	selected = slices.Compact(selected)

	for _, idx := range selected {
		if idx < 1 || idx > len(source) || isBlankRow(source[idx-1]) || (idx == 1 && hasHeaderRow(source)) {
			return &models.ProcessingResult{
				Success: false,
				Message: fmt.Sprintf("Linha %d não encontrada na aba %s.", idx, w.cfg.FichasSheet),
			}, nil
		}
	}

	next, err := w.ensurePrintSheet(f, source)
	if err != nil {
		return nil, fichas.NewBoundaryError("process", err)
	}

	batch := "IMP-" + strings.ToUpper(uuid.NewString()[:8])
	stamp := w.opts.Today().Format("02/01/2006 15:04:05")
	area := models.PrintArea{R1: next, C1: 1, C2: 2}
	for _, idx := range selected {
		cells := []interface{}{batch, stamp}
		for _, v := range source[idx-1] {
			cells = append(cells, parser.ParseValue(v))
		}
		cell, err := excelize.CoordinatesToCellName(1, next)
		if err != nil {
			return nil, fichas.NewBoundaryError("process", err)
		}
		if err := f.SetSheetRow(w.cfg.PrintSheet, cell, &cells); err != nil {
			return nil, fichas.NewBoundaryError("process", err)
		}
		area.C2 = max(area.C2, len(cells))
		next++
	}

	// The print sheet prints only the latest batch.
	area.R2 = next - 1
	if err := parser.SetPrintArea(f, w.cfg.PrintSheet, area); err != nil {
		return nil, fichas.NewBoundaryError("process", err)
	}

	if err := f.Save(); err != nil {
		return nil, fichas.NewBoundaryError("process", fmt.Errorf("save workbook: %w", err))
	}

	w.logger.Info("Fichas written to print sheet",
		zap.String("batch", batch),
		zap.Int("count", len(selected)))

	count := len(selected)
	return &models.ProcessingResult{
		Success:  true,
		Message:  fmt.Sprintf("%d ficha(s) enviada(s) para a aba %s (lote %s).", count, w.cfg.PrintSheet, batch),
		Count:    &count,
		PrintURL: w.cfg.PrintURL,
	}, nil
}

// ensurePrintSheet creates the print sheet with a header row when missing
// and returns the 1-based row number to write next.
func (w *Workbook) ensurePrintSheet(f *excelize.File, source [][]string) (int, error) {
	idx, err := f.GetSheetIndex(w.cfg.PrintSheet)
	if err != nil {
		return 0, err
	}
	if idx == -1 {
		if _, err := f.NewSheet(w.cfg.PrintSheet); err != nil {
			return 0, err
		}
		header := []interface{}{"LOTE", "PROCESSADO_EM"}
		if hasHeaderRow(source) {
			for _, h := range source[0] {
				header = append(header, h)
			}
		}
		if err := f.SetSheetRow(w.cfg.PrintSheet, "A1", &header); err != nil {
			return 0, err
		}
	}

	rows, err := f.GetRows(w.cfg.PrintSheet)
	if err != nil {
		return 0, err
	}
	return len(rows) + 1, nil
}

func readSheet(f *excelize.File, sheet string) ([]models.Row, error) {
	rows, err := parser.ReadSheetRows(f, sheet)
	if err != nil {
		return nil, sheetError(sheet, err)
	}
	return rows, nil
}

// sheetError maps excelize's missing-sheet error to ErrSheetNotFound.
func sheetError(sheet string, err error) error {
	var missing excelize.ErrSheetNotExist
	if errors.As(err, &missing) {
		return fmt.Errorf("%w: %s", fichas.ErrSheetNotFound, sheet)
	}
	return err
}

func hasHeaderRow(rows [][]string) bool {
	return len(rows) > 0 && len(rows[0]) > 0 && strings.TrimSpace(rows[0][0]) == parser.HeaderSentinel
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
