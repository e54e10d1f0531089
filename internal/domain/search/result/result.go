package result

import "time"

// Item is a single federated search hit. Uniqueness is the (entityType, id) pair;
// ids are only unique within their own entity type.
type Item struct {
	id          string
	entityType  string
	title       string
	description string
	url         string
	metadata    map[string]string
	score       float64
	date        time.Time
}

// New creates a search result item. Negative scores are clamped to zero.
func New(
	id, entityType, title, description, url string,
	metadata map[string]string, score float64, date time.Time,
) Item {
	if score < 0 {
		score = 0
	}
	return Item{
		id: id, entityType: entityType, title: title,
		description: description, url: url,
		metadata: metadata, score: score, date: date,
	}
}

// ID returns the provider-scoped identifier.
func (i *Item) ID() string { return i.id }

// EntityType returns the registered type that produced this item.
func (i *Item) EntityType() string { return i.entityType }

// Title returns the primary display field.
func (i *Item) Title() string { return i.title }

// Description returns the pre-truncated display string.
func (i *Item) Description() string { return i.description }

// URL returns the provider-supplied deep link.
func (i *Item) URL() string { return i.url }

// Metadata returns provider-specific display fields.
func (i *Item) Metadata() map[string]string { return i.metadata }

// Score returns the relevance score.
func (i *Item) Score() float64 { return i.score }

// Date returns the provider-supplied date used for date ordering.
func (i *Item) Date() time.Time { return i.date }
