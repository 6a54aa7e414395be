package backend

import (
	"context"

	"github.com/ukaji3/fichas-go/pkg/fichas"
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
)

// Disconnected is the backend for environments without a spreadsheet
// boundary. Every call fails with fichas.ErrBoundaryUnavailable.
type Disconnected struct{}

func (Disconnected) FetchInspections(context.Context) (*models.FetchResult, error) {
	return nil, fichas.NewBoundaryError("fetch", fichas.ErrBoundaryUnavailable)
}

func (Disconnected) ProcessFichas(context.Context, []int) (*models.ProcessingResult, error) {
	return nil, fichas.NewBoundaryError("process", fichas.ErrBoundaryUnavailable)
}
