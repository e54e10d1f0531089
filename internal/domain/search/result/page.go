package result

// Page is a paginated slice of merged results.
type Page struct {
	items      []Item
	total      int
	page       int
	limit      int
	totalPages int
}

// NewPage assembles a result page. totalPages is ceil(total/limit), 0 when total is 0.
func NewPage(items []Item, total, page, limit int) Page {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page{
		items:      items,
		total:      total,
		page:       page,
		limit:      limit,
		totalPages: totalPages,
	}
}

// Items returns the results on this page.
func (p *Page) Items() []Item { return p.items }

// Total returns the number of matches across all pages.
func (p *Page) Total() int { return p.total }

// Page returns the 1-based page number.
func (p *Page) Page() int { return p.page }

// Limit returns the page size.
func (p *Page) Limit() int { return p.limit }

// TotalPages returns the page count.
func (p *Page) TotalPages() int { return p.totalPages }
