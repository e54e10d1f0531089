package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opendash/searchd/internal/domain"
	"github.com/opendash/searchd/internal/domain/auth"
	"github.com/opendash/searchd/internal/domain/search/provider"
	"github.com/opendash/searchd/internal/domain/search/query"
	"github.com/opendash/searchd/internal/domain/search/result"
	"github.com/opendash/searchd/internal/logger"
	"github.com/opendash/searchd/internal/metrics"
	"github.com/opendash/searchd/internal/ratelimit"
)

// Config holds coordinator tuning knobs.
type Config struct {
	// ProviderTimeout bounds every individual provider call during fan-out.
	ProviderTimeout time.Duration
	// MaxConcurrent bounds how many providers are queried at once.
	MaxConcurrent int
	// QuickLimit is the global result cap for quick search.
	QuickLimit int
}

const (
	defaultProviderTimeout = 2 * time.Second
	defaultMaxConcurrent   = 8
	defaultQuickLimit      = 8
)

func (c *Config) applyDefaults() {
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = defaultProviderTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultMaxConcurrent
	}
	if c.QuickLimit <= 0 {
		c.QuickLimit = defaultQuickLimit
	}
}

// Service coordinates a query across the registered providers: it permission-
// gates, fans out, merges, sorts and paginates. It knows nothing about how any
// provider fetches its data.
type Service struct {
	registry ProviderRegistry
	limiter  RateLimiter
	cfg      Config
	logger   *zap.Logger
}

// New creates a search coordinator.
func New(registry ProviderRegistry, limiter RateLimiter, cfg Config, log *zap.Logger) *Service {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{registry: registry, limiter: limiter, cfg: cfg, logger: log}
}

// Search executes a validated query and returns one page of merged results.
// A provider failure or timeout degrades to an empty contribution; the caller
// only sees hard errors for malformed input or an exhausted request budget.
func (s *Service) Search(ctx context.Context, q *query.Query) (result.Page, error) {
	principal := auth.FromContext(ctx)

	if err := s.limiter.Allow(ctx, principal.UserID(), ratelimit.ClassSearch); err != nil {
		metrics.SearchRateLimited.WithLabelValues(string(ratelimit.ClassSearch)).Inc()
		return result.Page{}, err
	}

	if err := s.checkEntityTypes(q.EntityTypes()); err != nil {
		return result.Page{}, err
	}

	if len(q.EntityTypes()) == 1 {
		return s.searchSingle(ctx, principal, q)
	}
	return s.searchFederated(ctx, principal, q)
}

// QuickSearch is the capped instant-search variant: no pagination metadata,
// always relevance-ordered, at most QuickLimit items. An empty query or an
// empty eligible provider set yields an empty slice, never an error.
func (s *Service) QuickSearch(ctx context.Context, text string) ([]result.Item, error) {
	principal := auth.FromContext(ctx)

	if err := s.limiter.Allow(ctx, principal.UserID(), ratelimit.ClassQuickSearch); err != nil {
		metrics.SearchRateLimited.WithLabelValues(string(ratelimit.ClassQuickSearch)).Inc()
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return []result.Item{}, nil
	}
	if len(text) > query.MaxTextLength {
		return nil, fmt.Errorf("%w: query text too long (max %d chars)", domain.ErrInvalidQuery, query.MaxTextLength)
	}

	eligible := s.eligibleProviders(principal, s.registry.All())
	if len(eligible) == 0 {
		return []result.Item{}, nil
	}

	opts := provider.Options{Page: 1, Limit: s.cfg.QuickLimit, SortBy: query.SortRelevance}
	outcomes := s.fanOut(ctx, eligible, text, opts, false)

	merged := make([]result.Item, 0, len(eligible)*s.cfg.QuickLimit)
	for _, o := range outcomes {
		merged = append(merged, o.items...)
	}
	sortItems(merged, query.SortRelevance)
	if len(merged) > s.cfg.QuickLimit {
		merged = merged[:s.cfg.QuickLimit]
	}

	metrics.SearchesTotal.WithLabelValues("quick").Inc()
	return merged, nil
}

// checkEntityTypes re-asserts that every requested type has a registered
// provider. Transport-level validation should already have rejected unknown
// types; the coordinator stays defensive.
func (s *Service) checkEntityTypes(entityTypes []string) error {
	for _, t := range entityTypes {
		if !s.registry.HasType(t) {
			return fmt.Errorf("%w: %q (known types: %s)",
				domain.ErrUnknownEntityType, t, strings.Join(s.registry.AllTypes(), ", "))
		}
	}
	return nil
}

// searchSingle delegates pagination to the one targeted provider, so total and
// totalPages come straight from its Count. A missing permission yields an empty
// page rather than an error, to avoid leaking which types exist.
func (s *Service) searchSingle(ctx context.Context, principal auth.Principal, q *query.Query) (result.Page, error) {
	entityType := q.EntityTypes()[0]
	p, ok := s.registry.Get(entityType)
	if !ok {
		return result.NewPage([]result.Item{}, 0, q.Page(), q.Limit()), nil
	}
	if !principal.HasPermission(p.RequiredPermission()) {
		return result.NewPage([]result.Item{}, 0, q.Page(), q.Limit()), nil
	}

	opts := provider.Options{Page: q.Page(), Limit: q.Limit(), SortBy: q.SortBy()}
	o := s.callProvider(ctx, p, q.Text(), opts, true)
	if o.err != nil {
		// Degrades to empty: "no results" and "the provider did not answer" are
		// observably identical to the caller.
		return result.NewPage([]result.Item{}, 0, q.Page(), q.Limit()), nil
	}

	metrics.SearchesTotal.WithLabelValues("single").Inc()
	return result.NewPage(o.items, o.count, q.Page(), q.Limit()), nil
}

// searchFederated fans out to every eligible provider, merges, sorts by the
// requested key and slices the global page. Each provider contributes up to
// page*limit candidates so global pagination stays consistent after the merge;
// total comes from summing the parallel Count calls.
func (s *Service) searchFederated(ctx context.Context, principal auth.Principal, q *query.Query) (result.Page, error) {
	var targets []provider.Provider
	if q.IsAll() {
		targets = s.registry.All()
	} else {
		targets = s.registry.GetMany(q.EntityTypes())
	}

	eligible := s.eligibleProviders(principal, targets)
	if len(eligible) == 0 {
		return result.NewPage([]result.Item{}, 0, q.Page(), q.Limit()), nil
	}

	opts := provider.Options{Page: 1, Limit: q.CandidateBudget(), SortBy: q.SortBy()}
	outcomes := s.fanOut(ctx, eligible, q.Text(), opts, true)

	merged := make([]result.Item, 0, len(eligible)*q.Limit())
	total := 0
	for _, o := range outcomes {
		merged = append(merged, o.items...)
		total += o.count
	}

	sortItems(merged, q.SortBy())

	start := q.Offset()
	if start > len(merged) {
		start = len(merged)
	}
	end := start + q.Limit()
	if end > len(merged) {
		end = len(merged)
	}

	metrics.SearchesTotal.WithLabelValues("federated").Inc()
	return result.NewPage(merged[start:end], total, q.Page(), q.Limit()), nil
}

// eligibleProviders applies the type-level permission gate. Providers the caller
// may not consult are silently omitted.
func (s *Service) eligibleProviders(principal auth.Principal, providers []provider.Provider) []provider.Provider {
	eligible := make([]provider.Provider, 0, len(providers))
	for _, p := range providers {
		if principal.HasPermission(p.RequiredPermission()) {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// outcome is one provider's contribution to a federated request.
type outcome struct {
	items []result.Item
	count int
	err   error
}

// fanOut queries the eligible providers concurrently, each call bounded by the
// per-provider timeout. A provider that fails or times out contributes an empty
// outcome and is logged; it never cancels its siblings or the overall request.
func (s *Service) fanOut(
	ctx context.Context,
	providers []provider.Provider,
	text string,
	opts provider.Options,
	withCount bool,
) []outcome {
	outcomes := make([]outcome, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			outcomes[i] = s.callProvider(gctx, p, text, opts, withCount)
			return nil
		})
	}
	// Group members never return errors; Wait only observes ctx cancellation.
	_ = g.Wait()

	return outcomes
}

// callProvider runs one provider's Search (and optionally Count) under the
// fan-out timeout, converting panics and errors into an empty contribution.
func (s *Service) callProvider(
	ctx context.Context,
	p provider.Provider,
	text string,
	opts provider.Options,
	withCount bool,
) (o outcome) {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("%w: panic in provider %s: %v", domain.ErrProviderUnavailable, p.EntityType(), r)}
		}
		metrics.ProviderDuration.WithLabelValues(p.EntityType()).Observe(time.Since(start).Seconds())
		if o.err != nil {
			metrics.ProviderFailures.WithLabelValues(p.EntityType()).Inc()
			logger.FromContext(ctx).Warn("search provider degraded to empty contribution",
				zap.String("entity_type", p.EntityType()),
				zap.Error(o.err),
			)
		}
	}()

	items, err := p.Search(cctx, text, opts)
	if err != nil {
		return outcome{err: fmt.Errorf("%w: %s search: %w", domain.ErrProviderUnavailable, p.EntityType(), err)}
	}

	count := len(items)
	if withCount {
		count, err = p.Count(cctx, text)
		if err != nil {
			return outcome{err: fmt.Errorf("%w: %s count: %w", domain.ErrProviderUnavailable, p.EntityType(), err)}
		}
	}

	return outcome{items: items, count: count}
}

// sortItems orders merged results by the requested key. Sorting is stable, so
// ties keep each provider's original relative order.
func sortItems(items []result.Item, key query.Sort) {
	switch key {
	case query.SortDate:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Date().After(items[j].Date())
		})
	case query.SortName:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title()) < strings.ToLower(items[j].Title())
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Score() > items[j].Score()
		})
	}
}
