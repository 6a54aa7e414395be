package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ukaji3/fichas-go/pkg/fichas"
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxPayloadBytes bounds a single response body.
const maxPayloadBytes = 64 << 20

// RemoteConfig points Remote at the Apps Script web endpoints.
type RemoteConfig struct {
	// FichasURL returns the fichas sheet rows.
	FichasURL string
	// RegistryURL returns the person registry rows.
	RegistryURL string
	// ProcessURL receives the "generate fichas" action.
	ProcessURL string

	Client ClientConfig
}

// Remote is the connected backend: the spreadsheet lives behind Apps Script
// web endpoints that answer with JSON rows.
type Remote struct {
	cfg    RemoteConfig
	opts   fichas.Options
	client *client
	logger *zap.Logger
}

// NewRemote validates cfg and returns a Remote backend.
func NewRemote(cfg RemoteConfig, opts fichas.Options, logger *zap.Logger) (*Remote, error) {
	if cfg.FichasURL == "" || cfg.RegistryURL == "" || cfg.ProcessURL == "" {
		return nil, errors.New("remote backend requires fichas, registry and process URLs")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remote{
		cfg:    cfg,
		opts:   opts,
		client: newClient(cfg.Client, logger),
		logger: logger,
	}, nil
}

// FetchInspections downloads both datasets concurrently and extracts the
// day's fichas.
func (r *Remote) FetchInspections(ctx context.Context) (*models.FetchResult, error) {
	var fichaRows, registryRows []models.Row

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.fetchRows(gctx, r.cfg.FichasURL)
		if err != nil {
			return fmt.Errorf("fichas: %w", err)
		}
		fichaRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := r.fetchRows(gctx, r.cfg.RegistryURL)
		if err != nil {
			return fmt.Errorf("registry: %w", err)
		}
		registryRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fichas.NewBoundaryError("fetch", err)
	}

	r.logger.Debug("Fetched remote rows",
		zap.Int("fichas", len(fichaRows)),
		zap.Int("registry", len(registryRows)))

	return fichas.Extract(fichaRows, registryRows, r.opts), nil
}

type processRequest struct {
	Action  string `json:"action"`
	Indices []int  `json:"indices"`
}

// ProcessFichas posts the generate action once and decodes the structured
// reply. It is never retried: a lost reply may still have generated fichas.
func (r *Remote) ProcessFichas(ctx context.Context, indices []int) (*models.ProcessingResult, error) {
	body, err := json.Marshal(processRequest{Action: "generateFichas", Indices: indices})
	if err != nil {
		return nil, fichas.NewBoundaryError("process", err)
	}

	data, err := r.roundTrip(ctx, http.MethodPost, r.cfg.ProcessURL, body)
	if err != nil {
		return nil, fichas.NewBoundaryError("process", err)
	}

	res, err := decodeProcessingResult(data)
	if err != nil {
		return nil, fichas.NewBoundaryError("process", err)
	}
	return res, nil
}

func (r *Remote) fetchRows(ctx context.Context, url string) ([]models.Row, error) {
	data, err := r.roundTrip(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows(data)
}

func (r *Remote) roundTrip(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var (
		resp *http.Response
		err  error
	)
	if method == http.MethodPost {
		resp, err = r.client.post(ctx, url, body, "application/json")
	} else {
		resp, err = r.client.do(ctx, method, url, body, "")
	}
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return data, nil
}

// decodeJSON decodes data with json.Number cells. A top-level JSON string is
// decoded once more: Apps Script often returns JSON text as a string.
func decodeJSON(data []byte) (interface{}, error) {
	var v interface{}
	for depth := 0; depth < 2; depth++ {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode response as JSON: %w", err)
		}
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		data = []byte(s)
	}
	return v, nil
}

// decodeRows accepts a JSON array of rows or an object {"data": rows}.
// Elements that are not arrays become nil rows so positions are preserved.
func decodeRows(data []byte) ([]models.Row, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}

	var items []interface{}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		items = t
	case map[string]interface{}:
		inner, _ := t["data"].([]interface{})
		items = inner
	default:
		return nil, fmt.Errorf("unexpected payload of type %T", v)
	}

	rows := make([]models.Row, len(items))
	for i, item := range items {
		if cells, ok := item.([]interface{}); ok {
			rows[i] = models.Row(cells)
		}
	}
	return rows, nil
}

func decodeProcessingResult(data []byte) (*models.ProcessingResult, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected process reply of type %T", v)
	}
	if _, ok := obj["success"].(bool); !ok {
		return nil, errors.New("process reply has no boolean success field")
	}
	// Round-trip through the typed struct.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var res models.ProcessingResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode process reply: %w", err)
	}
	return &res, nil
}
