package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/fichas-go/pkg/fichas"
	"github.com/ukaji3/fichas-go/pkg/fichas/journal"
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
)

type stubBackend struct {
	mu       sync.Mutex
	fetch    *models.FetchResult
	fetchErr error
	process  *models.ProcessingResult
	procErr  error
	calls    [][]int
	fetches  int
	block    chan struct{}
	entered  chan struct{}
}

func (b *stubBackend) FetchInspections(ctx context.Context) (*models.FetchResult, error) {
	b.mu.Lock()
	b.fetches++
	b.mu.Unlock()
	b.wait()
	return b.fetch, b.fetchErr
}

func (b *stubBackend) ProcessFichas(ctx context.Context, indices []int) (*models.ProcessingResult, error) {
	b.mu.Lock()
	b.calls = append(b.calls, append([]int(nil), indices...))
	b.mu.Unlock()
	b.wait()
	return b.process, b.procErr
}

func (b *stubBackend) wait() {
	if b.entered != nil {
		b.entered <- struct{}{}
	}
	if b.block != nil {
		<-b.block
	}
}

type memJournal struct {
	entries []journal.Entry
}

func (j *memJournal) Record(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	j.entries = append(j.entries, e)
	return e, nil
}

func sampleFetch() *models.FetchResult {
	return &models.FetchResult{
		Inspections: []models.InspectionRecord{
			{ID: "a", Nome: "Ana Lima", CPF: "11111111111", OriginalIndex: 2},
			{ID: "b", Nome: "Bruno Reis", CPF: "22222222222", OriginalIndex: 3},
			{ID: "c", Nome: "Carla Dias", CPF: "33333333333", OriginalIndex: 5},
		},
		Stats:    models.DashboardStats{TotalFichas: 3, UniqueInspecionandos: 3, Homens: 1, Mulheres: 2},
		PrintURL: "https://print.example/sheet",
	}
}

func loaded(t *testing.T, b *stubBackend, opts ...Option) *Controller {
	t.Helper()
	if b.fetch == nil && b.fetchErr == nil {
		b.fetch = sampleFetch()
	}
	c := New(b, opts...)
	require.NoError(t, c.Reload(context.Background()))
	return c
}

func TestReloadReplacesState(t *testing.T) {
	c := loaded(t, &stubBackend{})

	snap := c.Snapshot("")
	assert.Len(t, snap.Inspections, 3)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 2, snap.Stats.Mulheres)
	assert.Equal(t, "https://print.example/sheet", snap.PrintURL)
	assert.Equal(t, models.StatusNone, snap.Status.Kind)
	assert.False(t, snap.Empty)
	assert.False(t, snap.Loading)
}

func TestReloadClearsSelection(t *testing.T) {
	c := loaded(t, &stubBackend{})
	c.Toggle(2)
	c.Toggle(5)

	require.NoError(t, c.Reload(context.Background()))
	assert.Empty(t, c.Selected())
}

func TestReloadFailureKeepsRecords(t *testing.T) {
	b := &stubBackend{}
	c := loaded(t, b)

	b.fetch, b.fetchErr = nil, fichas.NewBoundaryError("fetch", errors.New("connection refused"))
	err := c.Reload(context.Background())
	require.Error(t, err)

	snap := c.Snapshot("")
	assert.Len(t, snap.Inspections, 3)
	assert.Equal(t, models.Status{Kind: models.StatusError, Message: MsgLoadFailed}, snap.Status)
	assert.False(t, snap.Empty)
}

func TestReloadEmpty(t *testing.T) {
	c := loaded(t, &stubBackend{fetch: &models.FetchResult{}})

	snap := c.Snapshot("")
	assert.True(t, snap.Empty)
	assert.NotNil(t, snap.Inspections)
	assert.Empty(t, snap.Inspections)
}

func TestToggle(t *testing.T) {
	c := loaded(t, &stubBackend{})

	assert.True(t, c.Toggle(3))
	assert.Equal(t, []int{3}, c.Selected())
	assert.False(t, c.Toggle(3))
	assert.Empty(t, c.Selected())
}

func TestToggleAllIsInvolution(t *testing.T) {
	c := loaded(t, &stubBackend{})

	c.ToggleAll("")
	assert.Equal(t, []int{2, 3, 5}, c.Selected())

	c.ToggleAll("")
	assert.Empty(t, c.Selected())
}

func TestToggleAllUsesVisibleRecords(t *testing.T) {
	c := loaded(t, &stubBackend{})
	c.Toggle(3)

	c.ToggleAll("ana")
	assert.Equal(t, []int{2}, c.Selected())

	c.ToggleAll("ana")
	assert.Empty(t, c.Selected())
}

func TestToggleAllNoVisibleRecords(t *testing.T) {
	c := loaded(t, &stubBackend{})
	c.Toggle(2)

	c.ToggleAll("nobody")
	assert.Empty(t, c.Selected())
}

func TestSubmitEmptySelectionIsNoop(t *testing.T) {
	b := &stubBackend{}
	c := loaded(t, b)

	status, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusNone, status.Kind)
	assert.Empty(t, b.calls)
}

func TestSubmitSuccess(t *testing.T) {
	count := 2
	j := &memJournal{}
	b := &stubBackend{process: &models.ProcessingResult{
		Success:  true,
		Count:    &count,
		PrintURL: "https://print.example/batch",
	}}
	c := loaded(t, b, WithJournal(j))
	c.Toggle(5)
	c.Toggle(2)

	status, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]int{{2, 5}}, b.calls)
	assert.Equal(t, models.Status{
		Kind:     models.StatusSuccess,
		Message:  "2 ficha(s) pronta(s) para impressão!",
		PrintURL: "https://print.example/batch",
	}, status)
	assert.Empty(t, c.Selected())
	assert.Equal(t, status, c.Status())

	require.Len(t, j.entries, 1)
	assert.Equal(t, journal.OutcomeSuccess, j.entries[0].Outcome)
	assert.Equal(t, []int{2, 5}, j.entries[0].Indices)
}

func TestSubmitSuccessWithoutCountUsesMessage(t *testing.T) {
	b := &stubBackend{process: &models.ProcessingResult{Success: true, Message: "ok, enviado"}}
	c := loaded(t, b)
	c.Toggle(3)

	status, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok, enviado", status.Message)
}

func TestSubmitStructuredFailure(t *testing.T) {
	j := &memJournal{}
	b := &stubBackend{process: &models.ProcessingResult{Success: false, Message: "Planilha bloqueada"}}
	c := loaded(t, b, WithJournal(j))
	c.Toggle(3)

	status, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Status{Kind: models.StatusError, Message: "Planilha bloqueada"}, status)
	assert.Equal(t, []int{3}, c.Selected())

	require.Len(t, j.entries, 1)
	assert.Equal(t, journal.OutcomeFailure, j.entries[0].Outcome)
}

func TestSubmitTransportFailure(t *testing.T) {
	j := &memJournal{}
	b := &stubBackend{procErr: fichas.NewBoundaryError("process", errors.New("timeout"))}
	c := loaded(t, b, WithJournal(j))
	c.Toggle(2)

	status, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.Status{Kind: models.StatusError, Message: MsgProcessFailed}, status)
	assert.Equal(t, []int{2}, c.Selected())

	require.Len(t, j.entries, 1)
	assert.Equal(t, journal.OutcomeTransport, j.entries[0].Outcome)
}

func TestSubmitKeepsSelectionMadeDuringCall(t *testing.T) {
	b := &stubBackend{
		process: &models.ProcessingResult{Success: true},
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	b.fetch = sampleFetch()
	c := New(b)
	go func() { <-b.entered; close(b.block) }()
	require.NoError(t, c.Reload(context.Background()))

	b.block = make(chan struct{})
	c.Toggle(2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Submit(context.Background())
	}()
	<-b.entered
	c.Toggle(5)
	close(b.block)
	<-done

	assert.Equal(t, []int{5}, c.Selected())
}

func TestConcurrentSubmitIsBusy(t *testing.T) {
	b := &stubBackend{
		process: &models.ProcessingResult{Success: true},
		fetch:   sampleFetch(),
	}
	c := loaded(t, b)
	c.Toggle(2)

	b.block = make(chan struct{})
	b.entered = make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Submit(context.Background())
	}()
	<-b.entered

	assert.True(t, c.Snapshot("").Submitting)
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, fichas.ErrBusy)

	close(b.block)
	<-done
	assert.Len(t, b.calls, 1)
	assert.False(t, c.Snapshot("").Submitting)
}

func TestConcurrentReloadIsBusy(t *testing.T) {
	b := &stubBackend{
		fetch:   sampleFetch(),
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	c := New(b)

	done := make(chan error, 1)
	go func() { done <- c.Reload(context.Background()) }()
	<-b.entered

	assert.ErrorIs(t, c.Reload(context.Background()), fichas.ErrBusy)
	close(b.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, b.fetches)
}
