package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/sirupsen/logrus"
)

// Outcome classifies a refresh.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeNetworkError Outcome = "network_error"
	OutcomeServerError  Outcome = "server_error"
	OutcomeDecodeError  Outcome = "decode_error"
	OutcomeStoreError   Outcome = "store_error"
)

// Result describes one refresh. On any outcome other than OutcomeOK the cache
// was left exactly as it was.
type Result struct {
	Outcome    Outcome   `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	Fetched    int       `json:"fetched"`
	Upserted   int       `json:"upserted"`
	Removed    int       `json:"removed"`
	Skipped    int       `json:"skipped"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Err        error     `json:"-"`
}

func (r Result) OK() bool { return r.Outcome == OutcomeOK }

// Synchronizer reconciles the product cache with the remote catalog.
type Synchronizer struct {
	remote       remote.Client
	repo         Repository
	tx           database.TxManager
	assetBaseURL string
	log          *logrus.Logger
	now          func() time.Time

	mu     sync.Mutex
	lastMu sync.RWMutex
	last   *Result
}

func NewSynchronizer(client remote.Client, repo Repository, tx database.TxManager, assetBaseURL string, logger *logrus.Logger) *Synchronizer {
	return &Synchronizer{
		remote:       client,
		repo:         repo,
		tx:           tx,
		assetBaseURL: assetBaseURL,
		log:          logger,
		now:          time.Now,
	}
}

// Refresh fetches the full remote product list and merges it into the cache
// in one transaction: every remote product is upserted under its remote id
// and cached products missing from the list are deleted. Refreshes never run
// concurrently.
func (s *Synchronizer) Refresh(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{StartedAt: s.now()}
	defer func() { s.record(res) }()

	dtos, err := s.remote.ListProducts(ctx)
	if err != nil {
		res = s.fail(res, classify(err), err)
		return res
	}
	res.Fetched = len(dtos)

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		res = s.fail(res, OutcomeStoreError, err)
		return res
	}
	products, skipped := s.prepare(dtos, NewMapper(s.assetBaseURL, categories))
	res.Skipped = skipped

	keep := make([]int64, 0, len(products))
	for _, p := range products {
		keep = append(keep, p.ID)
	}

	var upserted, removed int
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if upserted, err = s.repo.UpsertProducts(ctx, products); err != nil {
			return err
		}
		removed, err = s.repo.DeleteProductsNotIn(ctx, keep)
		return err
	})
	if err != nil {
		res = s.fail(res, OutcomeStoreError, err)
		return res
	}

	res.Outcome = OutcomeOK
	res.Upserted = upserted
	res.Removed = removed
	res.FinishedAt = s.now()
	s.log.WithFields(logrus.Fields{
		"fetched":  res.Fetched,
		"upserted": res.Upserted,
		"removed":  res.Removed,
		"skipped":  res.Skipped,
	}).Info("Synchronizer: catalog refreshed")
	return res
}

// prepare maps remote records, drops invalid ones and keeps the last record
// for a repeated id, preserving first-seen order.
func (s *Synchronizer) prepare(dtos []remote.Producto, m Mapper) ([]*Product, int) {
	byID := make(map[int64]int, len(dtos))
	products := make([]*Product, 0, len(dtos))
	skipped := 0
	for _, dto := range dtos {
		if dto.ID <= 0 || dto.Precio < 0 || dto.Stock < 0 || (dto.PrecioOferta != nil && *dto.PrecioOferta < 0) {
			s.log.WithField("remote_id", dto.ID).Warn("Synchronizer: skipping invalid remote product")
			skipped++
			continue
		}
		p := m.ToProduct(dto)
		if i, ok := byID[p.ID]; ok {
			s.log.WithField("remote_id", p.ID).Warn("Synchronizer: duplicate remote product id, keeping the last record")
			products[i] = p
			skipped++
			continue
		}
		byID[p.ID] = len(products)
		products = append(products, p)
	}
	return products, skipped
}

func (s *Synchronizer) fail(res Result, outcome Outcome, err error) Result {
	res.Outcome = outcome
	res.Err = err
	res.Error = err.Error()
	var se *remote.StatusError
	if errors.As(err, &se) {
		res.StatusCode = se.Code
	}
	res.FinishedAt = s.now()
	s.log.WithField("outcome", outcome).Warnf("Synchronizer: refresh failed, keeping cached catalog: %v", err)
	return res
}

func (s *Synchronizer) record(res Result) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.last = &res
}

// Last returns the most recent refresh result.
func (s *Synchronizer) Last() (Result, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Run refreshes every interval until ctx is done.
func (s *Synchronizer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.log.Infof("Synchronizer: periodic refresh every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

func classify(err error) Outcome {
	var se *remote.StatusError
	var de *remote.DecodeError
	switch {
	case errors.As(err, &se):
		return OutcomeServerError
	case errors.As(err, &de):
		return OutcomeDecodeError
	default:
		return OutcomeNetworkError
	}
}
