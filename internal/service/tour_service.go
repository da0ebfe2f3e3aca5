package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andy/tourbook/internal/domain"
	"github.com/andy/tourbook/internal/reconcile"
	"github.com/andy/tourbook/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrTourNotFound  = errors.New("tour not found")
	ErrDuplicateCode = errors.New("another tour already uses this code")
)

// CreateTourInput is everything needed to assemble a tour from an
// extraction plus manual input
type CreateTourInput struct {
	General               domain.GeneralInfo
	Itinerary             []domain.ItineraryItem
	Matches               []domain.MatchedService
	OtherExpenses         []domain.Expense
	Advance               float64
	CollectionsForCompany float64
	CompanyTip            float64
}

// TourService assembles, updates and deletes tours. The in-memory
// collection is authoritative; store writes happen in the background and
// their failures are logged, not returned.
type TourService interface {
	// Load seeds the in-memory collection from the store
	Load(ctx context.Context) error

	// List returns all tours, newest start date first
	List() []*domain.Tour

	// Get returns a tour by id
	Get(id string) (*domain.Tour, error)

	// FindByCode returns a tour by case-insensitive code
	FindByCode(code string) (*domain.Tour, error)

	// MatchCandidates prices extracted service candidates against the catalog
	MatchCandidates(ctx context.Context, candidates []domain.ExtractionServiceCandidate) ([]domain.MatchedService, error)

	// Import matches an extraction result and creates (or merges) the tour
	Import(ctx context.Context, res *domain.ExtractionResult) (string, error)

	// Create builds a tour, merging into an existing one with the same code
	Create(ctx context.Context, in CreateTourInput) (string, error)

	// Update applies updater to a copy of the tour, then recomputes and saves
	Update(ctx context.Context, id string, updater func(*domain.Tour)) (*domain.Tour, error)

	// SaveManualEdit is Update with validation; nothing is saved while the
	// returned list is non-empty
	SaveManualEdit(ctx context.Context, id string, updater func(*domain.Tour)) (*domain.Tour, domain.ValidationErrors, error)

	// Recompute re-derives per diem and financials, e.g. after a rate change
	Recompute(ctx context.Context, id string) (*domain.Tour, error)

	// Delete removes the tour locally and asks the store to delete it
	Delete(ctx context.Context, id string) error

	// Flush waits for in-flight store writes
	Flush()

	// Close stops listening to the store and flushes
	Close()
}

type tourService struct {
	tours      repository.TourRepository
	masterData repository.MasterDataRepository
	log        *zap.Logger
	now        func() time.Time

	mu      sync.Mutex
	byID    map[string]*domain.Tour
	pending map[string]int // in-flight writes per tour id
	// ids whose last store write failed; local state wins over snapshots
	unsynced map[string]bool

	writes      sync.WaitGroup
	unsubscribe func()
}

// NewTourService creates a tour service subscribed to store snapshots
func NewTourService(
	tours repository.TourRepository,
	masterData repository.MasterDataRepository,
	log *zap.Logger,
) TourService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &tourService{
		tours:      tours,
		masterData: masterData,
		log:        log.Named("tours"),
		now:        time.Now,
		byID:       make(map[string]*domain.Tour),
		pending:    make(map[string]int),
		unsynced:   make(map[string]bool),
	}
	s.unsubscribe = tours.Subscribe(s.applySnapshot)
	return s
}

func (s *tourService) Load(ctx context.Context) error {
	tours, err := s.tours.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tours: %w", err)
	}
	s.applySnapshot(tours)
	return nil
}

func (s *tourService) List() []*domain.Tour {
	s.mu.Lock()
	out := make([]*domain.Tour, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, t.Clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].General.StartDate != out[j].General.StartDate {
			return out[i].General.StartDate > out[j].General.StartDate
		}
		return out[i].General.Code < out[j].General.Code
	})
	return out
}

func (s *tourService) Get(id string) (*domain.Tour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTourNotFound, id)
	}
	return t.Clone(), nil
}

func (s *tourService) FindByCode(code string) (*domain.Tour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.findByCodeLocked(code, ""); t != nil {
		return t.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTourNotFound, code)
}

// findByCodeLocked returns the tour with the given code other than exceptID.
// Blank codes never match.
func (s *tourService) findByCodeLocked(code, exceptID string) *domain.Tour {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	for _, t := range s.byID {
		if t.ID != exceptID && domain.SameCode(t.General.Code, code) {
			return t
		}
	}
	return nil
}

func (s *tourService) MatchCandidates(ctx context.Context, candidates []domain.ExtractionServiceCandidate) ([]domain.MatchedService, error) {
	md, err := s.masterData.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load master data: %w", err)
	}
	return reconcile.MatchServices(candidates, md.Services), nil
}

func (s *tourService) Import(ctx context.Context, res *domain.ExtractionResult) (string, error) {
	if res == nil {
		return "", errors.New("extraction result is empty")
	}
	md, err := s.masterData.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load master data: %w", err)
	}

	return s.create(CreateTourInput{
		General:               res.General,
		Itinerary:             res.Itinerary,
		Matches:               reconcile.MatchServices(res.Services, md.Services),
		OtherExpenses:         res.OtherExpenses,
		Advance:               res.Advance,
		CollectionsForCompany: res.CollectionsForCompany,
		CompanyTip:            res.CompanyTip,
	}, md.PerDiemRates), nil
}

func (s *tourService) Create(ctx context.Context, in CreateTourInput) (string, error) {
	md, err := s.masterData.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load master data: %w", err)
	}
	return s.create(in, md.PerDiemRates), nil
}

func (s *tourService) create(in CreateTourInput, rates []domain.PerDiemRate) string {
	s.mu.Lock()
	existing := s.findByCodeLocked(in.General.Code, "")
	var tour *domain.Tour
	oldKey := ""
	if existing != nil {
		tour = existing.Clone()
		oldKey = existing.StoreKey()
	}
	s.mu.Unlock()

	if tour == nil {
		tour = domain.NewTour(in.General)
		tour.CreatedAt = s.now()
	}

	tour.General = in.General
	tour.Itinerary = append([]domain.ItineraryItem{}, in.Itinerary...)
	tour.Services = reconcile.BuildServices(in.Matches)
	tour.OtherExpenses = make([]domain.Expense, 0, len(in.OtherExpenses))
	for _, e := range in.OtherExpenses {
		if e.ID == "" {
			e.ID = domain.NewID()
		}
		tour.OtherExpenses = append(tour.OtherExpenses, e)
	}
	tour.Financials = domain.FinancialSummary{
		Advance:               in.Advance,
		CollectionsForCompany: in.CollectionsForCompany,
		CompanyTip:            in.CompanyTip,
	}

	tour = reconcile.Recompute(tour, rates)
	tour.UpdatedAt = s.now()

	if existing != nil {
		s.log.Info("merging tour into existing record",
			zap.String("tour_id", tour.ID),
			zap.String("code", tour.General.Code),
		)
	}
	s.commit(tour, oldKey)
	return tour.ID
}

func (s *tourService) Update(ctx context.Context, id string, updater func(*domain.Tour)) (*domain.Tour, error) {
	prev, next, err := s.prepareUpdate(ctx, id, updater)
	if err != nil {
		return nil, err
	}
	s.commit(next, prev.StoreKey())
	return next.Clone(), nil
}

func (s *tourService) SaveManualEdit(ctx context.Context, id string, updater func(*domain.Tour)) (*domain.Tour, domain.ValidationErrors, error) {
	prev, next, err := s.prepareUpdate(ctx, id, updater)
	if err != nil {
		return nil, nil, err
	}
	if problems := domain.ValidateForSave(next); len(problems) > 0 {
		return next, problems, nil
	}
	s.commit(next, prev.StoreKey())
	return next.Clone(), nil, nil
}

func (s *tourService) Recompute(ctx context.Context, id string) (*domain.Tour, error) {
	return s.Update(ctx, id, func(*domain.Tour) {})
}

// prepareUpdate runs updater on a deep copy and recomputes derived fields
func (s *tourService) prepareUpdate(ctx context.Context, id string, updater func(*domain.Tour)) (*domain.Tour, *domain.Tour, error) {
	md, err := s.masterData.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load master data: %w", err)
	}

	s.mu.Lock()
	cur, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: %s", ErrTourNotFound, id)
	}
	prev := cur.Clone()
	s.mu.Unlock()

	work := prev.Clone()
	if updater != nil {
		updater(work)
	}
	work.ID = prev.ID
	work.CreatedAt = prev.CreatedAt

	s.mu.Lock()
	clash := s.findByCodeLocked(work.General.Code, work.ID)
	s.mu.Unlock()
	if clash != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateCode, work.General.Code)
	}

	next := reconcile.Recompute(work, md.PerDiemRates)
	next.UpdatedAt = s.now()
	return prev, next, nil
}

func (s *tourService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	tour, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTourNotFound, id)
	}
	delete(s.byID, id)
	s.pending[id]++
	s.mu.Unlock()

	key := tour.StoreKey()
	s.background(id, func(ctx context.Context) error {
		if err := s.tours.Delete(ctx, key); err != nil {
			s.log.Error("failed to delete tour from store; removed locally",
				zap.String("tour_id", id),
				zap.String("key", key),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
	return nil
}

// commit publishes the tour in memory, then writes it to the store
func (s *tourService) commit(tour *domain.Tour, oldKey string) {
	s.mu.Lock()
	s.byID[tour.ID] = tour
	s.pending[tour.ID]++
	s.mu.Unlock()

	snapshot := tour.Clone()
	s.background(tour.ID, func(ctx context.Context) error {
		if err := s.tours.Save(ctx, snapshot); err != nil {
			s.log.Error("failed to save tour to store; kept locally",
				zap.String("tour_id", snapshot.ID),
				zap.String("code", snapshot.General.Code),
				zap.Error(err),
			)
			return err
		}
		if oldKey != "" && oldKey != snapshot.StoreKey() {
			if err := s.tours.Delete(ctx, oldKey); err != nil {
				s.log.Warn("failed to remove tour under its previous code",
					zap.String("tour_id", snapshot.ID),
					zap.String("key", oldKey),
					zap.Error(err),
				)
				return err
			}
		}
		return nil
	})
}

// background runs a store write and settles the pending mark when done
func (s *tourService) background(id string, write func(ctx context.Context) error) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		err := write(context.Background())
		s.settle(id, err)
	}()
}

// settle drops one pending mark for id and records whether the store now
// agrees with the local state
func (s *tourService) settle(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[id]--
	if s.pending[id] <= 0 {
		delete(s.pending, id)
	}
	if err != nil {
		s.unsynced[id] = true
	} else {
		delete(s.unsynced, id)
	}
}

// localWinsLocked reports whether snapshots must not override id
func (s *tourService) localWinsLocked(id string) bool {
	return s.pending[id] > 0 || s.unsynced[id]
}

// applySnapshot replaces the collection with a store snapshot. Tours with
// an in-flight or failed local write keep their local state, including
// deletion.
func (s *tourService) applySnapshot(snapshot []*domain.Tour) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]*domain.Tour, len(snapshot))
	for _, t := range snapshot {
		if t == nil || s.localWinsLocked(t.ID) {
			continue
		}
		next[t.ID] = t.Clone()
	}
	for id, local := range s.byID {
		if s.localWinsLocked(id) {
			next[id] = local
		}
	}
	s.byID = next
}

func (s *tourService) Flush() {
	s.writes.Wait()
}

func (s *tourService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.Flush()
}
