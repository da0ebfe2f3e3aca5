package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/andy/tourbook/internal/db"
	"github.com/andy/tourbook/internal/domain"
)

// TourRepo is a SQLite implementation of TourRepository
type TourRepo struct {
	db *db.DB

	mu        sync.Mutex
	nextSub   int
	listeners map[int]func([]*domain.Tour)

	// held across fetch and dispatch so snapshots arrive in write order
	notifyMu sync.Mutex
}

// NewTourRepo creates a new TourRepo
func NewTourRepo(database *db.DB) *TourRepo {
	return &TourRepo{
		db:        database,
		listeners: make(map[int]func([]*domain.Tour)),
	}
}

// Save writes the full tour document, replacing any tour with the same key
func (r *TourRepo) Save(ctx context.Context, tour *domain.Tour) error {
	payload, err := json.Marshal(tour)
	if err != nil {
		return fmt.Errorf("failed to encode tour: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO tours (code_key, id, code, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		tour.StoreKey(),
		tour.ID,
		tour.General.Code,
		string(payload),
		tour.CreatedAt.Format(timeLayout),
		tour.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save tour: %w", err)
	}

	r.notify(ctx)
	return nil
}

// Delete removes the tour stored under key
func (r *TourRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM tours WHERE code_key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}

	r.notify(ctx)
	return nil
}

// GetByCode retrieves a tour by its code, ignoring case
func (r *TourRepo) GetByCode(ctx context.Context, code string) (*domain.Tour, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		"SELECT payload FROM tours WHERE code_key = ?",
		domain.SanitizeCode(code),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tour %q: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}

	return decodeTour(payload)
}

// FetchAll retrieves every stored tour
func (r *TourRepo) FetchAll(ctx context.Context) ([]*domain.Tour, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT payload FROM tours ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	defer rows.Close()

	tours := make([]*domain.Tour, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan tour: %w", err)
		}
		tour, err := decodeTour(payload)
		if err != nil {
			return nil, err
		}
		tours = append(tours, tour)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tours: %w", err)
	}

	return tours, nil
}

// Subscribe registers fn to receive a snapshot after every write
func (r *TourRepo) Subscribe(fn func([]*domain.Tour)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

func (r *TourRepo) notify(ctx context.Context) {
	r.mu.Lock()
	fns := make([]func([]*domain.Tour), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	if len(fns) == 0 {
		return
	}

	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	snapshot, err := r.FetchAll(ctx)
	if err != nil {
		return
	}
	for _, fn := range fns {
		fn(snapshot)
	}
}

func decodeTour(payload string) (*domain.Tour, error) {
	tour := &domain.Tour{}
	if err := json.Unmarshal([]byte(payload), tour); err != nil {
		return nil, fmt.Errorf("failed to decode tour: %w", err)
	}
	return tour, nil
}
