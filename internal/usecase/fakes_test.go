package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

// Hand-written fakes shared by the usecase tests.

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("ID-%04d", g.n)
}

type fakeMemberRepo struct {
	members map[string]*domain.Member
	err     error
}

func newFakeMemberRepo(members ...*domain.Member) *fakeMemberRepo {
	repo := &fakeMemberRepo{members: map[string]*domain.Member{}}
	for _, m := range members {
		repo.members[m.ID] = m
	}
	return repo
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	if f.err != nil {
		return f.err
	}
	f.members[member.ID] = member
	return nil
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	member, ok := f.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return member, nil
}

func (f *fakeMemberRepo) List(ctx context.Context) ([]*domain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Member
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

type fakeTransactionRepo struct {
	txns      map[string]*domain.Transaction
	order     []string
	createErr error
	deleteErr error
	listErr   error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txns: map[string]*domain.Transaction{}}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.txns[txn.ID] = txn
	f.order = append(f.order, txn.ID)
	return nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	txn, ok := f.txns[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return txn, nil
}

func (f *fakeTransactionRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.txns, id)
	return nil
}

func (f *fakeTransactionRepo) ListByMember(ctx context.Context, memberID string) ([]*domain.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Transaction
	for _, id := range f.order {
		txn, ok := f.txns[id]
		if ok && txn.MemberID == memberID {
			out = append(out, txn)
		}
	}
	return out, nil
}

type fakeJournalRepo struct {
	entries   map[string]*domain.JournalEntry
	createErr error
	deleteErr error
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{entries: map[string]*domain.JournalEntry{}}
}

func (f *fakeJournalRepo) Create(ctx context.Context, entry *domain.JournalEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeJournalRepo) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, domain.ErrJournalNotFound
	}
	return entry, nil
}

func (f *fakeJournalRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.entries, id)
	return nil
}

type fakeStockRepo struct {
	items     map[string]*domain.StockItem
	saveErr   error
	saveCount int
	// failOnSave fails the Nth save (1-based); zero disables.
	failOnSave int
}

func newFakeStockRepo(items ...*domain.StockItem) *fakeStockRepo {
	repo := &fakeStockRepo{items: map[string]*domain.StockItem{}}
	for _, item := range items {
		copied := *item
		repo.items[item.Code] = &copied
	}
	return repo
}

func (f *fakeStockRepo) Save(ctx context.Context, item *domain.StockItem) error {
	f.saveCount++
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.failOnSave > 0 && f.saveCount == f.failOnSave {
		return fmt.Errorf("simulated save failure on save %d", f.saveCount)
	}
	copied := *item
	f.items[item.Code] = &copied
	return nil
}

func (f *fakeStockRepo) GetByCode(ctx context.Context, code string) (*domain.StockItem, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, domain.ErrStockItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeStockRepo) List(ctx context.Context) ([]*domain.StockItem, error) {
	var out []*domain.StockItem
	for _, item := range f.items {
		copied := *item
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type fakeRatioRepo struct {
	ratios map[string]*domain.ConversionRatio
	err    error
}

func newFakeRatioRepo(ratios ...*domain.ConversionRatio) *fakeRatioRepo {
	repo := &fakeRatioRepo{ratios: map[string]*domain.ConversionRatio{}}
	for _, r := range ratios {
		repo.ratios[r.BaseProduct+"|"+r.FromUnit+"|"+r.ToUnit] = r
	}
	return repo
}

func (f *fakeRatioRepo) Save(ctx context.Context, ratio *domain.ConversionRatio) error {
	if f.err != nil {
		return f.err
	}
	f.ratios[ratio.BaseProduct+"|"+ratio.FromUnit+"|"+ratio.ToUnit] = ratio
	return nil
}

func (f *fakeRatioRepo) Get(ctx context.Context, baseProduct, fromUnit, toUnit string) (*domain.ConversionRatio, error) {
	if f.err != nil {
		return nil, f.err
	}
	ratio, ok := f.ratios[baseProduct+"|"+fromUnit+"|"+toUnit]
	if !ok {
		return nil, domain.ErrRatioNotFound
	}
	return ratio, nil
}

func (f *fakeRatioRepo) List(ctx context.Context) ([]*domain.ConversionRatio, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.ConversionRatio
	for _, r := range f.ratios {
		out = append(out, r)
	}
	return out, nil
}

type fakeAuditRepo struct {
	logs      []*domain.AuditLog
	createErr error
}

func (f *fakeAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var out []*domain.AuditLog
	for i := len(f.logs) - 1; i >= 0; i-- {
		log := f.logs[i]
		if filter.Category != "" && log.Category != filter.Category {
			continue
		}
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func (f *fakeAuditRepo) Count(ctx context.Context) (int, error) {
	return len(f.logs), nil
}

func (f *fakeAuditRepo) DeleteOldest(ctx context.Context, n int) error {
	if n > len(f.logs) {
		n = len(f.logs)
	}
	f.logs = f.logs[n:]
	return nil
}

func (f *fakeAuditRepo) byCategory(category domain.AuditCategory) []*domain.AuditLog {
	var out []*domain.AuditLog
	for _, log := range f.logs {
		if log.Category == category {
			out = append(out, log)
		}
	}
	return out
}

type fakeCache struct {
	mu        sync.Mutex
	values    map[string][]byte
	gets      int
	hits      int
	setErr    error
	brokenGet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.brokenGet {
		return nil, fmt.Errorf("cache unavailable")
	}
	value, ok := f.values[key]
	if !ok {
		return nil, fmt.Errorf("cache miss")
	}
	f.hits++
	return value, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

// engineFixture wires a full processor over the fakes.
type engineFixture struct {
	members      *fakeMemberRepo
	transactions *fakeTransactionRepo
	journals     *fakeJournalRepo
	stock        *fakeStockRepo
	ratios       *fakeRatioRepo
	auditRepo    *fakeAuditRepo
	cache        *fakeCache
	audit        *AuditRecorder
	stockStore   *StockBalanceStore
	processor    *TransactionProcessor
}

func newEngineFixture(members *fakeMemberRepo, stock *fakeStockRepo, ratios *fakeRatioRepo) *engineFixture {
	idGen := &seqIDGenerator{}
	f := &engineFixture{
		members:      members,
		transactions: newFakeTransactionRepo(),
		journals:     newFakeJournalRepo(),
		stock:        stock,
		ratios:       ratios,
		auditRepo:    &fakeAuditRepo{},
		cache:        newFakeCache(),
	}

	f.audit = NewAuditRecorder(f.auditRepo, idGen, 0)
	f.stockStore = NewStockBalanceStore(f.stock, f.cache, time.Minute)
	f.processor = NewTransactionProcessor(
		f.members,
		f.transactions,
		NewJournalWriter(f.journals, idGen),
		NewBalanceCalculator(f.members, f.transactions),
		NewConversionCalculator(f.ratios),
		f.stockStore,
		f.audit,
		idGen,
	)

	return f
}
