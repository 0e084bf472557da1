package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ikkim/udonggeum-storefront/internal/app/model"
	"github.com/ikkim/udonggeum-storefront/internal/app/repository"
	"github.com/ikkim/udonggeum-storefront/pkg/logger"
)

var (
	ErrInvalidCartLine = errors.New("cart line requires a non-empty id and a positive quantity")
)

// CartService owns the cart lines. Every mutation is computed on a copy of the
// current lines, swapped in, and then handed to the snapshot writer; callers never
// wait for persistence.
type CartService interface {
	Load(ctx context.Context)
	Lines() model.CartLines
	Line(id string) (model.CartLine, bool)
	Add(id string, product model.ProductSnapshot, quantity int) error
	UpdateQuantity(id string, delta int) bool
	Remove(id string) bool
	Clear()
	TotalCount() int
	TotalPrice() float64
	Checkpoint()
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

type cartService struct {
	repo        repository.CartSnapshotRepository
	loadTimeout time.Duration
	writer      *snapshotWriter

	mu    sync.RWMutex
	lines model.CartLines
}

type CartServiceOptions struct {
	LoadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewCartService(repo repository.CartSnapshotRepository, opts CartServiceOptions) CartService {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 3 * time.Second
	}
	return &cartService{
		repo:        repo,
		loadTimeout: opts.LoadTimeout,
		writer:      newSnapshotWriter(repo, opts.WriteTimeout),
		lines:       model.CartLines{},
	}
}

// Load replaces the in-memory cart with the persisted snapshot. Anything that
// cannot be read yields an empty cart.
func (s *cartService) Load(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	lines := model.CartLines{}
	data, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrSnapshotNotFound):
		logger.Info("No persisted cart found, starting empty", nil)
	case err != nil:
		logger.Error("Failed to load cart snapshot, starting empty", err)
	default:
		lines = decodeCartSnapshot(data)
		logger.Info("Cart restored from snapshot", map[string]interface{}{
			"lines":       len(lines),
			"total_count": lines.TotalCount(),
		})
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// decodeCartSnapshot accepts only a JSON array. Records that fail to decode or
// violate the line invariants are skipped.
func decodeCartSnapshot(data []byte) model.CartLines {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("Cart snapshot is not a well-formed list, ignoring", map[string]interface{}{
			"error": err.Error(),
		})
		return model.CartLines{}
	}

	raw := make([]model.CartLine, 0, len(records))
	for i, rec := range records {
		var line model.CartLine
		if err := json.Unmarshal(rec, &line); err != nil {
			logger.Warn("Skipping malformed cart line", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		raw = append(raw, line)
	}

	lines := model.NormalizeCartLines(raw)
	if len(lines) < len(records) {
		logger.Debug("Cart snapshot normalized", map[string]interface{}{
			"records": len(records),
			"kept":    len(lines),
		})
	}
	return lines
}

func (s *cartService) Lines() model.CartLines {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.Clone()
}

func (s *cartService) Line(id string) (model.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.Find(id)
}

func (s *cartService) Add(id string, product model.ProductSnapshot, quantity int) error {
	if !model.ValidLineID(id) || quantity <= 0 {
		logger.Warn("Rejected cart add", map[string]interface{}{
			"id":       id,
			"quantity": quantity,
		})
		return ErrInvalidCartLine
	}

	s.mu.Lock()
	s.lines = s.lines.Add(id, product, quantity)
	s.persistLocked()
	s.mu.Unlock()

	logger.Debug("Cart line added", map[string]interface{}{
		"id":       id,
		"quantity": quantity,
	})
	return nil
}

func (s *cartService) UpdateQuantity(id string, delta int) bool {
	s.mu.Lock()
	next, changed := s.lines.UpdateQuantity(id, delta)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.lines = next
	s.persistLocked()
	s.mu.Unlock()

	logger.Debug("Cart line quantity changed", map[string]interface{}{
		"id":    id,
		"delta": delta,
	})
	return true
}

func (s *cartService) Remove(id string) bool {
	s.mu.Lock()
	next, changed := s.lines.Remove(id)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.lines = next
	s.persistLocked()
	s.mu.Unlock()

	logger.Debug("Cart line removed", map[string]interface{}{
		"id": id,
	})
	return true
}

func (s *cartService) Clear() {
	s.mu.Lock()
	s.lines = model.CartLines{}
	s.persistLocked()
	s.mu.Unlock()

	logger.Info("Cart cleared", nil)
}

// TotalCount is recomputed from the current lines on every call.
func (s *cartService) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.TotalCount()
}

func (s *cartService) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.TotalPrice()
}

// Checkpoint re-issues a write of the current lines.
func (s *cartService) Checkpoint() {
	s.mu.RLock()
	s.persistLocked()
	s.mu.RUnlock()
}

func (s *cartService) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

func (s *cartService) Close(ctx context.Context) error {
	return s.writer.close(ctx)
}

// persistLocked hands the current lines to the writer. It runs under s.mu so
// snapshots are scheduled in the same order the mutations were applied.
func (s *cartService) persistLocked() {
	data, err := json.Marshal(s.lines)
	if err != nil {
		logger.Error("Failed to encode cart snapshot", err)
		return
	}
	s.writer.schedule(data)
}
