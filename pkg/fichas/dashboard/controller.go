// Package dashboard holds the operator-facing state of the fichas dashboard:
// the loaded records, the selection, and the outcome of the last action.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ukaji3/fichas-go/pkg/fichas"
	"github.com/ukaji3/fichas-go/pkg/fichas/journal"
	"github.com/ukaji3/fichas-go/pkg/fichas/metrics"
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
	"go.uber.org/zap"
)

// Messages shown to the operator.
const (
	MsgLoadFailed    = "Erro ao carregar banco de fichas externo."
	MsgProcessFailed = "Erro crítico durante o processamento."
	MsgEmpty         = "Nenhuma ficha para hoje."
)

// Journal records submission attempts.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) (journal.Entry, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithJournal records every submission attempt in j.
func WithJournal(j Journal) Option {
	return func(c *Controller) { c.journal = j }
}

// Controller owns the dashboard state. It is safe for concurrent use; at
// most one Reload and one Submit run at a time, and a concurrent second call
// fails with fichas.ErrBusy.
type Controller struct {
	backend fichas.Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
	journal Journal

	loading    atomic.Bool
	submitting atomic.Bool

	mu        sync.RWMutex
	loaded    bool
	records   []models.InspectionRecord
	stats     models.DashboardStats
	printURL  string
	selection map[int]struct{}
	status    models.Status
}

// New returns a Controller over backend. Nothing is loaded until Reload.
func New(backend fichas.Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:   backend,
		logger:    zap.NewNop(),
		selection: make(map[int]struct{}),
		status:    models.NoStatus(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot is a consistent copy of the dashboard state.
type Snapshot struct {
	// Inspections are the loaded records matching the query.
	Inspections []models.InspectionRecord `json:"inspections"`
	// Total is the number of loaded records before filtering.
	Total      int                   `json:"total"`
	Stats      models.DashboardStats `json:"stats"`
	PrintURL   string                `json:"printUrl"`
	Selected   []int                 `json:"selected"`
	Status     models.Status         `json:"status"`
	Loading    bool                  `json:"loading"`
	Submitting bool                  `json:"submitting"`
	// Empty is set after a successful load that returned no fichas.
	Empty bool `json:"empty"`
}

// Snapshot returns the state with records narrowed by query.
func (c *Controller) Snapshot(query string) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Inspections: Filter(c.records, query),
		Total:       len(c.records),
		Stats:       c.stats,
		PrintURL:    c.printURL,
		Selected:    c.selectedLocked(),
		Status:      c.status,
		Loading:     c.loading.Load(),
		Submitting:  c.submitting.Load(),
		Empty:       c.loaded && len(c.records) == 0 && c.status.Kind != models.StatusError,
	}
}

// Selected returns the selected indices in ascending order.
func (c *Controller) Selected() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedLocked()
}

func (c *Controller) selectedLocked() []int {
	out := make([]int, 0, len(c.selection))
	for idx := range c.selection {
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}

// Status returns the outcome of the last action.
func (c *Controller) Status() models.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Controller) setStatus(s models.Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Reload fetches the day's fichas and replaces records, stats and follow-up
// URL in one step, clearing the selection. On failure the previous records
// stay and the status reports the error.
func (c *Controller) Reload(ctx context.Context) error {
	if !c.loading.CompareAndSwap(false, true) {
		return fichas.ErrBusy
	}
	defer c.loading.Store(false)

	c.setStatus(models.NoStatus())

	start := time.Now()
	res, err := c.backend.FetchInspections(ctx)
	if err != nil {
		c.logger.Error("Failed to load fichas", zap.Error(err))
		c.metrics.ObserveFetch(metrics.ResultError, time.Since(start), 0, 0)
		c.setStatus(models.Status{Kind: models.StatusError, Message: MsgLoadFailed})
		return err
	}
	if res == nil {
		res = &models.FetchResult{}
	}

	records := res.Inspections
	if records == nil {
		records = []models.InspectionRecord{}
	}

	c.mu.Lock()
	c.loaded = true
	c.records = records
	c.stats = res.Stats
	c.printURL = res.PrintURL
	c.selection = make(map[int]struct{})
	c.mu.Unlock()

	c.metrics.ObserveFetch(metrics.ResultOK, time.Since(start), len(records), res.SkippedRows)
	c.logger.Info("Fichas loaded",
		zap.Int("records", len(records)),
		zap.Int("people", res.Stats.UniqueInspecionandos),
		zap.Duration("elapsed", time.Since(start)))
	if res.SkippedRows > 0 {
		c.logger.Warn("Malformed rows skipped", zap.Int("rows", res.SkippedRows))
	}
	if res.DuplicateControls > 0 {
		c.logger.Warn("Registry has repeated documents, last row wins",
			zap.Int("documents", res.DuplicateControls))
	}
	return nil
}

// Toggle flips the membership of index in the selection and reports whether
// it is selected afterwards.
func (c *Controller) Toggle(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.selection[index]; ok {
		delete(c.selection, index)
		return false
	}
	c.selection[index] = struct{}{}
	return true
}

// ToggleAll clears the selection when it is exactly the non-empty set of
// records visible under query; otherwise it selects exactly that set.
func (c *Controller) ToggleAll(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := VisibleIndices(c.records, query)

	if len(visible) > 0 && len(visible) == len(c.selection) {
		all := true
		for _, idx := range visible {
			if _, ok := c.selection[idx]; !ok {
				all = false
				break
			}
		}
		if all {
			c.selection = make(map[int]struct{})
			return
		}
	}

	c.selection = make(map[int]struct{}, len(visible))
	for _, idx := range visible {
		c.selection[idx] = struct{}{}
	}
}

// ClearSelection empties the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selection = make(map[int]struct{})
	c.mu.Unlock()
}

// Submit sends the selection to the process operation and returns the new
// status. With an empty selection nothing is sent and the status is left
// as it was. The returned error is non-nil only for transport failures and
// ErrBusy; a structured failure is reported through the status.
func (c *Controller) Submit(ctx context.Context) (models.Status, error) {
	indices := c.Selected()
	if len(indices) == 0 {
		c.metrics.ObserveSubmit(metrics.ResultSkipped, 0)
		return c.Status(), nil
	}
	if !c.submitting.CompareAndSwap(false, true) {
		return c.Status(), fichas.ErrBusy
	}
	defer c.submitting.Store(false)

	c.setStatus(models.NoStatus())

	res, err := c.backend.ProcessFichas(ctx, indices)
	var status models.Status
	switch {
	case err != nil:
		c.logger.Error("Failed to process fichas", zap.Ints("indices", indices), zap.Error(err))
		c.metrics.ObserveSubmit(metrics.ResultError, len(indices))
		status = models.Status{Kind: models.StatusError, Message: MsgProcessFailed}
		c.record(ctx, indices, journal.OutcomeTransport, status, nil)

	case res == nil || !res.Success:
		msg := ""
		if res != nil {
			msg = res.Message
		}
		c.logger.Warn("Backend refused fichas", zap.Ints("indices", indices), zap.String("message", msg))
		c.metrics.ObserveSubmit(metrics.ResultFailed, len(indices))
		status = models.Status{Kind: models.StatusError, Message: msg}
		c.record(ctx, indices, journal.OutcomeFailure, status, nil)

	default:
		c.mu.Lock()
		for _, idx := range indices {
			delete(c.selection, idx)
		}
		c.mu.Unlock()

		c.logger.Info("Fichas processed", zap.Ints("indices", indices))
		c.metrics.ObserveSubmit(metrics.ResultOK, len(indices))
		status = models.Status{
			Kind:     models.StatusSuccess,
			Message:  successMessage(res, len(indices)),
			PrintURL: res.PrintURL,
		}
		c.record(ctx, indices, journal.OutcomeSuccess, status, res.Count)
	}

	c.setStatus(status)
	return status, err
}

func successMessage(res *models.ProcessingResult, sent int) string {
	switch {
	case res.Count != nil:
		return fmt.Sprintf("%d ficha(s) pronta(s) para impressão!", *res.Count)
	case res.Message != "":
		return res.Message
	default:
		return fmt.Sprintf("%d ficha(s) pronta(s) para impressão!", sent)
	}
}

func (c *Controller) record(ctx context.Context, indices []int, outcome journal.Outcome, s models.Status, count *int) {
	if c.journal == nil {
		return
	}
	_, err := c.journal.Record(context.WithoutCancel(ctx), journal.Entry{
		Indices:  indices,
		Outcome:  outcome,
		Message:  s.Message,
		PrintURL: s.PrintURL,
		Count:    count,
	})
	if err != nil {
		c.logger.Warn("Failed to journal submission", zap.Error(err))
	}
}
