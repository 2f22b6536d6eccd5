package service

import (
	"context"
	"io"
	"log/slog"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
	"folio/internal/events"
	"folio/internal/random"
)

// fakeStore is an in-memory stand-in for the postgres repositories. One
// struct implements every repository interface so tests can inspect all
// state in one place.
type fakeStore struct {
	pages      map[int64]*models.Page
	requests   map[int64]map[int64]*models.UpdateRequest
	approvals  map[int64]map[int64][]string
	votes      map[int64]map[string]models.VoteState
	accounts   map[string]int64
	nextPageID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pages:     make(map[int64]*models.Page),
		requests:  make(map[int64]map[int64]*models.UpdateRequest),
		approvals: make(map[int64]map[int64][]string),
		votes:     make(map[int64]map[string]models.VoteState),
		accounts:  make(map[string]int64),
	}
}

// --- PageRepository ---

func (f *fakeStore) Create(ctx context.Context, page *models.Page) error {
	f.nextPageID++
	page.ID = f.nextPageID
	copied := *page
	copied.Owners = append([]string(nil), page.Owners...)
	f.pages[page.ID] = &copied
	f.requests[page.ID] = make(map[int64]*models.UpdateRequest)
	f.approvals[page.ID] = make(map[int64][]string)
	f.votes[page.ID] = make(map[string]models.VoteState)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	page, ok := f.pages[id]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	copied := *page
	copied.Owners = append([]string(nil), page.Owners...)
	return &copied, nil
}

func (f *fakeStore) GetForUpdate(ctx context.Context, id int64) (*models.Page, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeStore) List(ctx context.Context) ([]models.PageSummary, error) {
	summaries := make([]models.PageSummary, 0, len(f.pages))
	for id := int64(1); id <= f.nextPageID; id++ {
		page, ok := f.pages[id]
		if !ok {
			continue
		}
		summaries = append(summaries, models.PageSummary{
			ID:            page.ID,
			Name:          page.Name,
			OwnershipType: page.OwnershipType,
			Immutable:     page.Immutable,
			TotalLikes:    page.TotalLikes,
			TotalDislikes: page.TotalDislikes,
		})
	}
	return summaries, nil
}

func (f *fakeStore) NextRequestID(ctx context.Context, pageID int64) (int64, error) {
	page, ok := f.pages[pageID]
	if !ok {
		return 0, domain.ErrPageNotFound
	}
	id := page.NextRequestID
	page.NextRequestID++
	return id, nil
}

func (f *fakeStore) UpdateContent(ctx context.Context, pageID int64, name, thumbnail, html string) error {
	page, ok := f.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	page.Name = name
	page.Thumbnail = thumbnail
	page.HTML = html
	return nil
}

func (f *fakeStore) SetOwnership(ctx context.Context, pageID int64, t models.OwnershipType, owners []string, threshold int) error {
	page, ok := f.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	page.OwnershipType = t
	page.Owners = append([]string(nil), owners...)
	page.ApprovalThreshold = threshold
	return nil
}

func (f *fakeStore) AddBalance(ctx context.Context, pageID int64, amount int64) error {
	page, ok := f.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	page.Balance += amount
	return nil
}

func (f *fakeStore) SetBalance(ctx context.Context, pageID int64, amount int64) error {
	page, ok := f.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}
	page.Balance = amount
	return nil
}

func (f *fakeStore) AdjustVoteTotals(ctx context.Context, pageID int64, likes, dislikes int64) (*models.VoteTally, error) {
	page, ok := f.pages[pageID]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	page.TotalLikes += likes
	page.TotalDislikes += dislikes
	return &models.VoteTally{
		PageID:        pageID,
		TotalLikes:    page.TotalLikes,
		TotalDislikes: page.TotalDislikes,
	}, nil
}

// --- RequestRepository ---

func (f *fakeStore) CreateRequest(ctx context.Context, req *models.UpdateRequest) error {
	copied := *req
	f.requests[req.PageID][req.ID] = &copied
	return nil
}

func (f *fakeStore) GetRequestByID(ctx context.Context, pageID, requestID int64) (*models.UpdateRequest, error) {
	reqs, ok := f.requests[pageID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	req, ok := reqs[requestID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	copied := *req
	copied.Approvals = append([]string(nil), f.approvals[pageID][requestID]...)
	return &copied, nil
}

func (f *fakeStore) ListByPage(ctx context.Context, pageID int64) ([]models.UpdateRequest, error) {
	reqs := f.requests[pageID]
	out := make([]models.UpdateRequest, 0, len(reqs))
	for id := int64(1); id <= int64(len(reqs)); id++ {
		if req, ok := reqs[id]; ok {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeStore) AddApproval(ctx context.Context, pageID, requestID int64, address string) error {
	for _, approver := range f.approvals[pageID][requestID] {
		if approver == address {
			return domain.ErrAlreadyApproved
		}
	}
	f.approvals[pageID][requestID] = append(f.approvals[pageID][requestID], address)
	return nil
}

func (f *fakeStore) CountApprovals(ctx context.Context, pageID, requestID int64) (int, error) {
	return len(f.approvals[pageID][requestID]), nil
}

func (f *fakeStore) MarkExecuted(ctx context.Context, pageID, requestID int64) error {
	req, ok := f.requests[pageID][requestID]
	if !ok {
		return domain.ErrRequestNotFound
	}
	req.State = models.RequestExecuted
	return nil
}

func (f *fakeStore) ListProposers(ctx context.Context, pageID int64) ([]string, error) {
	reqs := f.requests[pageID]
	proposers := make([]string, 0, len(reqs))
	for id := int64(1); id <= int64(len(reqs)); id++ {
		if req, ok := reqs[id]; ok && req.OpenSubmission {
			proposers = append(proposers, req.Proposer)
		}
	}
	return proposers, nil
}

// --- VoteRepository ---

func (f *fakeStore) Get(ctx context.Context, pageID int64, address string) (models.VoteState, error) {
	states, ok := f.votes[pageID]
	if !ok {
		return models.VoteNone, nil
	}
	state, ok := states[address]
	if !ok {
		return models.VoteNone, nil
	}
	return state, nil
}

func (f *fakeStore) Set(ctx context.Context, pageID int64, address string, state models.VoteState) error {
	if _, ok := f.votes[pageID]; !ok {
		f.votes[pageID] = make(map[string]models.VoteState)
	}
	f.votes[pageID][address] = state
	return nil
}

// --- AccountRepository ---

func (f *fakeStore) Credit(ctx context.Context, address string, amount int64) error {
	f.accounts[address] += amount
	return nil
}

func (f *fakeStore) Balance(ctx context.Context, address string) (int64, error) {
	return f.accounts[address], nil
}

// requestRepoAdapter maps the RequestRepository method names onto the
// fakeStore (Create/GetByID collide with PageRepository's).
type requestRepoAdapter struct{ *fakeStore }

func (a requestRepoAdapter) Create(ctx context.Context, req *models.UpdateRequest) error {
	return a.CreateRequest(ctx, req)
}

func (a requestRepoAdapter) GetByID(ctx context.Context, pageID, requestID int64) (*models.UpdateRequest, error) {
	return a.GetRequestByID(ctx, pageID, requestID)
}

// fakeTxManager runs the function directly; the fake store has no real
// transaction semantics and the tests never rely on mid-transaction
// rollback.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeBus captures published events for assertions
type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(ev events.Event) {
	b.published = append(b.published, ev)
}

// fixedSource always returns the same value modulo n
type fixedSource struct{ value int }

func (s fixedSource) Intn(n int) int { return s.value % n }

// testEnv wires every service over one shared fake store
type testEnv struct {
	store     *fakeStore
	bus       *fakeBus
	pages     services.PageService
	updates   services.UpdateService
	fees      services.FeeService
	ownership services.OwnershipService
	votes     services.VoteService
}

func newTestEnv(entropy random.Source) *testEnv {
	store := newFakeStore()
	bus := &fakeBus{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tx := fakeTxManager{}
	requests := requestRepoAdapter{store}

	return &testEnv{
		store:     store,
		bus:       bus,
		pages:     NewPageService(store, tx, bus, logger),
		updates:   NewUpdateService(store, requests, tx, bus, logger),
		fees:      NewFeeService(store, requests, store, tx, entropy, logger),
		ownership: NewOwnershipService(store, tx, logger),
		votes:     NewVoteService(store, store, tx, bus, logger),
	}
}

const testDocument = "<!DOCTYPE html><html><body><h1>hello</h1></body></html>"
