package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andy/tourbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mock implementations
type mockTourRepo struct {
	mu        sync.Mutex
	byKey     map[string]*domain.Tour
	saves     int
	deleted   []string
	saveErr   error
	deleteErr error
	gate      chan struct{} // when set, Save blocks until it is closed
	listener  func([]*domain.Tour)
}

func newMockTourRepo(seed ...*domain.Tour) *mockTourRepo {
	m := &mockTourRepo{byKey: make(map[string]*domain.Tour)}
	for _, t := range seed {
		m.byKey[t.StoreKey()] = t.Clone()
	}
	return m
}

func (m *mockTourRepo) Save(ctx context.Context, tour *domain.Tour) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	m.saves++
	if m.saveErr != nil {
		m.mu.Unlock()
		return m.saveErr
	}
	m.byKey[tour.StoreKey()] = tour.Clone()
	m.mu.Unlock()
	return nil
}

func (m *mockTourRepo) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, key)
	delete(m.byKey, key)
	return nil
}

func (m *mockTourRepo) GetByCode(ctx context.Context, code string) (*domain.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.byKey[domain.SanitizeCode(code)]; ok {
		return t.Clone(), nil
	}
	return nil, errors.New("not found")
}

func (m *mockTourRepo) FetchAll(ctx context.Context) ([]*domain.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Tour, 0, len(m.byKey))
	for _, t := range m.byKey {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (m *mockTourRepo) Subscribe(fn func([]*domain.Tour)) func() {
	m.listener = fn
	return func() { m.listener = nil }
}

func (m *mockTourRepo) stored(key string) *domain.Tour {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byKey[key]
}

type mockMasterDataRepo struct {
	md  *domain.MasterData
	err error
}

func (m *mockMasterDataRepo) Load(ctx context.Context) (*domain.MasterData, error) {
	return m.md, m.err
}
func (m *mockMasterDataRepo) CreateService(ctx context.Context, s *domain.Service) error { return nil }
func (m *mockMasterDataRepo) UpdateServicePrice(ctx context.Context, id string, price float64) error {
	return nil
}
func (m *mockMasterDataRepo) DeleteService(ctx context.Context, id string) error      { return nil }
func (m *mockMasterDataRepo) CreateGuide(ctx context.Context, g *domain.Guide) error  { return nil }
func (m *mockMasterDataRepo) CreatePartner(ctx context.Context, p *domain.Partner) error {
	return nil
}
func (m *mockMasterDataRepo) CreatePerDiemRate(ctx context.Context, r *domain.PerDiemRate) error {
	return nil
}
func (m *mockMasterDataRepo) UpdatePerDiemRate(ctx context.Context, id string, rate float64) error {
	return nil
}
func (m *mockMasterDataRepo) AddCatalogItem(ctx context.Context, kind, value string) error {
	return nil
}

func testMasterData() *domain.MasterData {
	return &domain.MasterData{
		Services: []domain.Service{
			{ID: "s1", Name: "Hotel Rex", Price: 1200000},
			{ID: "s2", Name: "Bus 16 seats", Price: 2500000},
		},
		Guides: []domain.Guide{{ID: "g1", Name: "Minh"}},
		PerDiemRates: []domain.PerDiemRate{
			{ID: "r1", Location: "Hà Nội", Rate: 300000},
			{ID: "r2", Location: "Hạ Long", Rate: 400000},
		},
	}
}

func testGeneral(code string) domain.GeneralInfo {
	return domain.GeneralInfo{
		Code:         code,
		CustomerName: "ACME Travel",
		Pax:          12,
		StartDate:    "2025-03-01",
		EndDate:      "2025-03-03",
		GuideID:      "g1",
	}
}

func newTestService(t *testing.T, repo *mockTourRepo) *tourService {
	t.Helper()
	svc := NewTourService(repo, &mockMasterDataRepo{md: testMasterData()}, zap.NewNop()).(*tourService)
	t.Cleanup(svc.Close)
	return svc
}

func TestCreate_AssemblesTour(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	matches, err := svc.MatchCandidates(ctx, []domain.ExtractionServiceCandidate{
		{RawName: "Hotel REX", Quantity: 2, Price: 1000000},
		{RawName: "Boat trip", Quantity: 1, Price: 500000},
	})
	require.NoError(t, err)

	id, err := svc.Create(ctx, CreateTourInput{
		General: testGeneral("HN-01"),
		Itinerary: []domain.ItineraryItem{
			{Day: 1, Location: "Ha Noi"},
			{Day: 2, Location: "Ha Long"},
			{Day: 3, Location: "Hà Nội"},
		},
		Matches:       matches,
		OtherExpenses: []domain.Expense{{Description: "Water", Amount: 50000}},
		Advance:       5000000,
		CompanyTip:    -10,
	})
	require.NoError(t, err)
	svc.Flush()

	tour, err := svc.Get(id)
	require.NoError(t, err)

	require.Len(t, tour.Services, 2)
	assert.Equal(t, "s1", tour.Services[0].ServiceID)
	assert.Equal(t, 1200000.0, tour.Services[0].UnitPrice)
	assert.Equal(t, 200000.0, tour.Services[0].Discrepancy)
	assert.Equal(t, 500000.0, tour.Services[1].UnitPrice)
	assert.Zero(t, tour.Services[1].Discrepancy)

	require.Len(t, tour.PerDiem, 2)
	assert.Equal(t, 2, tour.PerDiem[0].Days)
	assert.Equal(t, 600000.0, tour.PerDiem[0].Total)

	assert.NotEmpty(t, tour.OtherExpenses[0].ID)
	assert.Zero(t, tour.Financials.CompanyTip)
	// 2*1.2M + 0.5M + 0.6M + 0.4M + 50k
	assert.Equal(t, 3950000.0, tour.Financials.TotalCost)
	assert.Equal(t, 5000000.0-3950000.0, tour.Financials.DifferenceToAdvance)

	assert.NotNil(t, repo.stored("hn-01"))
}

func TestCreate_MergesCaseInsensitiveCode(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := domain.NewTour(testGeneral("sgn-01"))
	existing.CreatedAt = created
	repo := newMockTourRepo(existing)
	svc := newTestService(t, repo)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx))

	general := testGeneral("SGN-01")
	general.Pax = 20
	id, err := svc.Create(ctx, CreateTourInput{General: general})
	require.NoError(t, err)
	svc.Flush()

	assert.Equal(t, existing.ID, id)
	tours := svc.List()
	require.Len(t, tours, 1)
	assert.Equal(t, created, tours[0].CreatedAt)
	assert.Equal(t, 20, tours[0].General.Pax)
	assert.Equal(t, "SGN-01", tours[0].General.Code)

	stored := repo.stored("sgn-01")
	require.NotNil(t, stored)
	assert.Equal(t, existing.ID, stored.ID)
}

func TestCreate_StoreFailureIsSwallowed(t *testing.T) {
	repo := newMockTourRepo()
	repo.saveErr = errors.New("disk full")
	svc := newTestService(t, repo)

	id, err := svc.Create(context.Background(), CreateTourInput{General: testGeneral("X-1")})
	require.NoError(t, err)
	svc.Flush()

	tour, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "X-1", tour.General.Code)
	assert.Nil(t, repo.stored("x-1"))
}

func TestCreate_BlankCodesDoNotMerge(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	first := testGeneral("")
	first.CustomerName = "Customer A"
	second := testGeneral("  ")
	second.CustomerName = "Customer B"

	idA, err := svc.Create(ctx, CreateTourInput{General: first})
	require.NoError(t, err)
	idB, err := svc.Create(ctx, CreateTourInput{General: second})
	require.NoError(t, err)
	svc.Flush()

	assert.NotEqual(t, idA, idB)
	assert.Len(t, svc.List(), 2)

	tourA, err := svc.Get(idA)
	require.NoError(t, err)
	assert.Equal(t, "Customer A", tourA.General.CustomerName)
	assert.NotNil(t, repo.stored(idA))
	assert.NotNil(t, repo.stored(idB))

	_, err = svc.FindByCode("")
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestUpdate_BlankCodeIsNotADuplicate(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTourInput{General: testGeneral("")})
	require.NoError(t, err)
	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("DRAFT-1")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, id, func(t *domain.Tour) { t.General.Code = "" })
	require.NoError(t, err)
	assert.Empty(t, updated.General.Code)
	svc.Flush()
	assert.Len(t, svc.List(), 2)
}

func TestCreate_MasterDataFailure(t *testing.T) {
	svc := NewTourService(newMockTourRepo(), &mockMasterDataRepo{err: errors.New("locked")}, nil)
	defer svc.Close()

	_, err := svc.Create(context.Background(), CreateTourInput{General: testGeneral("X-1")})
	require.Error(t, err)
	assert.Empty(t, svc.List())
}

func TestUpdate_RecomputesDerivedFields(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{
		General:   testGeneral("HN-02"),
		Itinerary: []domain.ItineraryItem{{Day: 1, Location: "Hà Nội"}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, id, func(t *domain.Tour) {
		t.Itinerary = append(t.Itinerary, domain.ItineraryItem{Day: 2, Location: "ha noi"})
		t.Services = append(t.Services, domain.TourService{
			ID: "line", Quantity: 1, UnitPrice: 100, SourcePrice: 80,
		})
		t.Financials.Advance = 1000000
	})
	require.NoError(t, err)
	svc.Flush()

	require.Len(t, updated.PerDiem, 1)
	assert.Equal(t, 2, updated.PerDiem[0].Days)
	assert.Equal(t, 20.0, updated.Services[0].Discrepancy)
	assert.Equal(t, 600100.0, updated.Financials.TotalCost)
	assert.Equal(t, 399900.0, updated.Financials.DifferenceToAdvance)

	stored := repo.stored("hn-02")
	require.NotNil(t, stored)
	assert.Equal(t, updated.Financials, stored.Financials)
}

func TestUpdate_RemovingGuideClearsPerDiem(t *testing.T) {
	svc := newTestService(t, newMockTourRepo())
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{
		General:   testGeneral("HN-03"),
		Itinerary: []domain.ItineraryItem{{Day: 1, Location: "Hà Nội"}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, id, func(t *domain.Tour) { t.General.GuideID = "" })
	require.NoError(t, err)
	assert.Empty(t, updated.PerDiem)
	assert.Zero(t, updated.Financials.TotalCost)
}

func TestUpdate_CodeChangeRemovesOldKey(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("OLD-1")})
	require.NoError(t, err)
	svc.Flush()

	_, err = svc.Update(ctx, id, func(t *domain.Tour) { t.General.Code = "NEW-1" })
	require.NoError(t, err)
	svc.Flush()

	assert.Nil(t, repo.stored("old-1"))
	require.NotNil(t, repo.stored("new-1"))
	assert.Equal(t, id, repo.stored("new-1").ID)
}

func TestUpdate_DuplicateCodeRejected(t *testing.T) {
	svc := newTestService(t, newMockTourRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTourInput{General: testGeneral("A-1")})
	require.NoError(t, err)
	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("B-1")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, id, func(t *domain.Tour) { t.General.Code = "a-1" })
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestUpdate_UnknownTour(t *testing.T) {
	svc := newTestService(t, newMockTourRepo())
	_, err := svc.Update(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestRecompute_IsStable(t *testing.T) {
	svc := newTestService(t, newMockTourRepo())
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{
		General:   testGeneral("HN-04"),
		Itinerary: []domain.ItineraryItem{{Day: 1, Location: "Hà Nội"}, {Day: 2, Location: "Hạ Long"}},
	})
	require.NoError(t, err)
	before, err := svc.Get(id)
	require.NoError(t, err)

	after, err := svc.Recompute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.PerDiem, after.PerDiem)
	assert.Equal(t, before.Financials, after.Financials)
}

func TestSaveManualEdit_BlocksInvalidTour(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("HN-05")})
	require.NoError(t, err)
	svc.Flush()
	savesBefore := repo.saves

	_, problems, err := svc.SaveManualEdit(ctx, id, func(t *domain.Tour) {
		t.General.CustomerName = "  "
		t.General.Pax = -1
	})
	require.NoError(t, err)
	assert.Contains(t, problems, "customer name is required")
	assert.Contains(t, problems, "pax cannot be negative")
	svc.Flush()

	assert.Equal(t, savesBefore, repo.saves)
	current, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "ACME Travel", current.General.CustomerName)
}

func TestSaveManualEdit_SavesValidTour(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("HN-06")})
	require.NoError(t, err)

	saved, problems, err := svc.SaveManualEdit(ctx, id, func(t *domain.Tour) {
		t.General.DriverName = "Tuan"
	})
	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.Equal(t, "Tuan", saved.General.DriverName)
	svc.Flush()
	assert.Equal(t, "Tuan", repo.stored("hn-06").General.DriverName)
}

func TestDelete_OptimisticWhenStoreFails(t *testing.T) {
	repo := newMockTourRepo()
	repo.deleteErr = errors.New("locked")
	svc := newTestService(t, repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("DEL-1")})
	require.NoError(t, err)
	svc.Flush()

	require.NoError(t, svc.Delete(ctx, id))
	svc.Flush()

	_, err = svc.Get(id)
	assert.ErrorIs(t, err, ErrTourNotFound)
	assert.NotNil(t, repo.stored("del-1"))
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrTourNotFound)
}

func TestSnapshot_SkipsToursWithPendingWrites(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("PEND-1")})
	require.NoError(t, err)
	svc.Flush()
	stale, err := svc.Get(id)
	require.NoError(t, err)

	repo.gate = make(chan struct{})
	_, err = svc.Update(ctx, id, func(t *domain.Tour) { t.General.Pax = 40 })
	require.NoError(t, err)

	// a snapshot taken before the write landed must not roll back the edit
	svc.applySnapshot([]*domain.Tour{stale})
	current, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 40, current.General.Pax)

	close(repo.gate)
	svc.Flush()

	svc.applySnapshot([]*domain.Tour{stale})
	current, err = svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 12, current.General.Pax)
}

func TestSnapshot_DoesNotResurrectPendingDelete(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("GONE-1")})
	require.NoError(t, err)
	svc.Flush()
	stale, err := svc.Get(id)
	require.NoError(t, err)

	svc.mu.Lock()
	delete(svc.byID, id)
	svc.pending[id]++
	svc.mu.Unlock()

	svc.applySnapshot([]*domain.Tour{stale})
	_, err = svc.Get(id)
	assert.ErrorIs(t, err, ErrTourNotFound)

	svc.settle(id, nil)
	svc.applySnapshot([]*domain.Tour{stale})
	_, err = svc.Get(id)
	assert.NoError(t, err)
}

func TestSnapshot_KeepsToursWhoseSaveFailed(t *testing.T) {
	repo := newMockTourRepo()
	repo.saveErr = errors.New("offline")
	svc := newTestService(t, repo)
	ctx := context.Background()

	localID, err := svc.Create(ctx, CreateTourInput{General: testGeneral("LOCAL-1")})
	require.NoError(t, err)
	svc.Flush()

	repo.mu.Lock()
	repo.saveErr = nil
	repo.mu.Unlock()

	_, err = svc.Create(ctx, CreateTourInput{General: testGeneral("OTHER-2")})
	require.NoError(t, err)
	svc.Flush()

	snapshot, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	svc.applySnapshot(snapshot)

	tour, err := svc.Get(localID)
	require.NoError(t, err)
	assert.Equal(t, "LOCAL-1", tour.General.Code)
	assert.Len(t, svc.List(), 2)

	// a later successful write hands the tour back to the store
	_, err = svc.Update(ctx, localID, func(t *domain.Tour) { t.General.Pax = 15 })
	require.NoError(t, err)
	svc.Flush()
	require.NotNil(t, repo.stored("local-1"))

	snapshot, err = repo.FetchAll(ctx)
	require.NoError(t, err)
	svc.applySnapshot(snapshot)
	tour, err = svc.Get(localID)
	require.NoError(t, err)
	assert.Equal(t, 15, tour.General.Pax)
}

func TestSnapshot_KeepsFailedDeleteDeleted(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateTourInput{General: testGeneral("STAY-1")})
	require.NoError(t, err)
	svc.Flush()

	repo.mu.Lock()
	repo.deleteErr = errors.New("offline")
	repo.mu.Unlock()

	require.NoError(t, svc.Delete(ctx, id))
	svc.Flush()

	snapshot, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	svc.applySnapshot(snapshot)

	_, err = svc.Get(id)
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestImport_MatchesAndCreates(t *testing.T) {
	repo := newMockTourRepo()
	svc := newTestService(t, repo)

	res := &domain.ExtractionResult{
		General: testGeneral("IMP-1"),
		Services: []domain.ExtractionServiceCandidate{
			{RawName: "BUS 16 SEATS", Quantity: 1, Price: 2000000},
		},
		Itinerary:  []domain.ItineraryItem{{Day: 1, Location: "Quảng Ninh"}},
		Advance:    3000000,
		CompanyTip: 100000,
	}

	id, err := svc.Import(context.Background(), res)
	require.NoError(t, err)
	svc.Flush()

	tour, err := svc.FindByCode("imp-1")
	require.NoError(t, err)
	assert.Equal(t, id, tour.ID)
	require.Len(t, tour.Services, 1)
	assert.Equal(t, 2500000.0, tour.Services[0].UnitPrice)
	assert.Equal(t, 500000.0, tour.Services[0].Discrepancy)

	require.Len(t, tour.PerDiem, 1)
	assert.Equal(t, "Quảng Ninh", tour.PerDiem[0].Location)
	assert.Zero(t, tour.PerDiem[0].Rate)

	assert.Equal(t, 2500000.0, tour.Financials.TotalCost)
	assert.Equal(t, 400000.0, tour.Financials.DifferenceToAdvance)
}

func TestList_SortedByStartDateThenCode(t *testing.T) {
	svc := newTestService(t, newMockTourRepo())
	ctx := context.Background()

	for _, g := range []domain.GeneralInfo{
		{Code: "B", StartDate: "2025-01-01"},
		{Code: "C", StartDate: "2025-02-01"},
		{Code: "A", StartDate: "2025-01-01"},
	} {
		_, err := svc.Create(ctx, CreateTourInput{General: g})
		require.NoError(t, err)
	}

	var codes []string
	for _, t := range svc.List() {
		codes = append(codes, t.General.Code)
	}
	assert.Equal(t, []string{"C", "A", "B"}, codes)
}
