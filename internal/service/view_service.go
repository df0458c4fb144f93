package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finassist/internal/cache"
	"finassist/internal/core"
	applog "finassist/internal/log"
)

// View is the display-ready aggregate bundle for one filter request.
// KPIs and the category breakdown cover the filtered subset; the
// monthly trend covers the whole ledger on purpose.
type View struct {
	KPIs       core.KPIs             `json:"kpis"`
	ByCategory []core.CategoryAmount `json:"by_category"`
	ByMonth    []core.MonthAmount    `json:"by_month"`
	Months     []string              `json:"months"`
	Categories []string              `json:"categories"`
}

// ViewService computes aggregate views, memoizing them per user and
// filter until the next mutation. Entries are keyed with a per-user
// generation counter; Invalidate bumps it and stale entries age out of
// the LRU.
type ViewService struct {
	ledgers *LedgerService
	views   *cache.LRUCache[View]
	logger  *applog.Logger

	mu  sync.Mutex
	gen map[string]uint64
}

func NewViewService(ledgers *LedgerService, logger *applog.Logger) *ViewService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ViewService{
		ledgers: ledgers,
		views:   cache.NewLRUCache[View](256, 5*time.Minute),
		logger:  logger.WithComponent(applog.ComponentView),
		gen:     make(map[string]uint64),
	}
}

// Aggregate loads the ledger and derives the filtered KPI, category,
// and trend views. Empty subsets aggregate to identity values, never
// errors.
func (s *ViewService) Aggregate(ctx context.Context, user string, f core.Filter) (View, error) {
	key := s.cacheKey(user, f)
	if v, ok := s.views.Get(key); ok {
		return v, nil
	}

	l, err := s.ledgers.Load(ctx, user)
	if err != nil {
		return View{}, err
	}

	subset := core.ApplyFilter(l, f)
	v := View{
		KPIs:       core.ComputeKPIs(subset),
		ByCategory: core.ByCategory(subset),
		ByMonth:    core.ByMonth(l),
		Months:     monthOptions(l),
		Categories: categoryOptions(l),
	}
	s.views.Set(key, v)

	s.logger.DebugContext(ctx, "Aggregate view computed",
		applog.FieldUser, user,
		applog.FieldMonth, f.Month,
		applog.FieldCategory, f.Category,
		applog.FieldRecords, len(subset.Records))
	return v, nil
}

// Invalidate drops cached views for a user after a mutation.
func (s *ViewService) Invalidate(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[user]++
}

func (s *ViewService) cacheKey(user string, f core.Filter) string {
	s.mu.Lock()
	gen := s.gen[user]
	s.mu.Unlock()
	return fmt.Sprintf("%s|%d|%s|%s", user, gen, f.Month, f.Category)
}

// monthOptions lists the distinct non-empty months of a ledger,
// ascending, for the filter selector.
func monthOptions(l core.Ledger) []string {
	months := make([]string, 0)
	for _, ma := range core.ByMonth(l) {
		months = append(months, ma.Month)
	}
	return months
}

// categoryOptions lists the distinct categories of a ledger, ascending.
func categoryOptions(l core.Ledger) []string {
	categories := make([]string, 0)
	for _, ca := range core.ByCategory(l) {
		categories = append(categories, ca.Name)
	}
	return categories
}
