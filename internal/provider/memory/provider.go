// Package memory implements the provider contract over an in-memory record set.
// It backs the seed catalogs loaded at startup and doubles as the provider used
// by coordinator tests. Row-level visibility lives here: unpublished records are
// only visible to their owner or to callers holding the type's moderate
// permission.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/opendash/searchd/internal/domain/auth"
	"github.com/opendash/searchd/internal/domain/search/provider"
	"github.com/opendash/searchd/internal/domain/search/query"
	"github.com/opendash/searchd/internal/domain/search/relevance"
	"github.com/opendash/searchd/internal/domain/search/result"
)

// StatusPublished marks records every caller may see.
const StatusPublished = "PUBLISHED"

const descriptionLimit = 160

// Record is one searchable entry of an entity type.
type Record struct {
	ID        string            `yaml:"id"`
	Title     string            `yaml:"title"`
	Secondary string            `yaml:"secondary"`
	Excerpt   string            `yaml:"excerpt"`
	Body      string            `yaml:"body"`
	URL       string            `yaml:"url"`
	Status    string            `yaml:"status"`
	OwnerID   string            `yaml:"owner_id"`
	Date      time.Time         `yaml:"date"`
	Metadata  map[string]string `yaml:"metadata"`
}

// Provider serves one entity type from an in-memory record set.
type Provider struct {
	entityType string
	permission string
	records    []Record
}

var _ provider.Provider = (*Provider)(nil)

// New creates a provider for the given entity type.
func New(entityType, permission string, records []Record) *Provider {
	return &Provider{
		entityType: entityType,
		permission: permission,
		records:    records,
	}
}

// EntityType returns the type key this provider serves.
func (p *Provider) EntityType() string { return p.entityType }

// RequiredPermission returns the capability gating this provider.
func (p *Provider) RequiredPermission() string { return p.permission }

// moderatePermission is the capability that reveals unpublished records of this
// type regardless of ownership.
func (p *Provider) moderatePermission() string { return p.entityType + ".moderate" }

// Search returns scored candidates visible to the caller in ctx, ordered by
// opts.SortBy and paginated within this entity type.
func (p *Provider) Search(ctx context.Context, text string, opts provider.Options) ([]result.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s search: %w", p.entityType, err)
	}

	items := p.match(ctx, text)

	switch opts.SortBy {
	case query.SortDate:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Date().After(items[j].Date()) })
	case query.SortName:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title()) < strings.ToLower(items[j].Title())
		})
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Score() > items[j].Score() })
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = query.DefaultLimit
	}
	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

// Count returns the total matches under the same visibility filter Search applies.
func (p *Provider) Count(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s count: %w", p.entityType, err)
	}
	return len(p.match(ctx, text)), nil
}

// match applies the row-level gate and the search predicate, scoring survivors.
func (p *Provider) match(ctx context.Context, text string) []result.Item {
	principal := auth.FromContext(ctx)
	canModerate := principal.HasPermission(p.moderatePermission())

	var items []result.Item
	for i := range p.records {
		rec := &p.records[i]
		if !p.visible(principal, canModerate, rec) {
			continue
		}
		fields := relevance.Fields{
			Primary:   rec.Title,
			Secondary: rec.Secondary,
			Excerpt:   rec.Excerpt,
			Body:      rec.Body,
		}
		if !relevance.Matches(text, fields) {
			continue
		}
		items = append(items, result.New(
			rec.ID, p.entityType, rec.Title,
			description(rec), rec.URL,
			metadata(rec), relevance.Score(text, fields), rec.Date,
		))
	}
	return items
}

func (p *Provider) visible(principal auth.Principal, canModerate bool, rec *Record) bool {
	if rec.Status == "" || strings.EqualFold(rec.Status, StatusPublished) {
		return true
	}
	if canModerate {
		return true
	}
	return rec.OwnerID != "" && rec.OwnerID == principal.UserID()
}

// description picks the display string: the excerpt if present, otherwise the
// body truncated to a fixed display length.
func description(rec *Record) string {
	if rec.Excerpt != "" {
		return truncate(rec.Excerpt, descriptionLimit)
	}
	return truncate(rec.Body, descriptionLimit)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

// metadata copies the record metadata and guarantees a status field, since
// callers key display logic off it.
func metadata(rec *Record) map[string]string {
	md := make(map[string]string, len(rec.Metadata)+1)
	for k, v := range rec.Metadata {
		md[k] = v
	}
	status := rec.Status
	if status == "" {
		status = StatusPublished
	}
	md["status"] = status
	return md
}
