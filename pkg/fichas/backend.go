package fichas

import (
	"context"

	"github.com/ukaji3/fichas-go/pkg/fichas/models"
)

// Backend is the remote boundary owning the spreadsheet data.
//
// A non-nil error from either method is a transport failure. A structured
// failure of ProcessFichas is reported as a result with Success == false.
type Backend interface {
	FetchInspections(ctx context.Context) (*models.FetchResult, error)
	ProcessFichas(ctx context.Context, indices []int) (*models.ProcessingResult, error)
}
