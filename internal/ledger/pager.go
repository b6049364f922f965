package ledger

import "context"

// Page is one slice of a paginated object listing.
type Page struct {
	Snapshots  []ObjectSnapshot
	NextCursor string
	HasNext    bool
}

// PageFunc fetches one page starting at the given cursor. An empty cursor
// means the first page.
type PageFunc func(ctx context.Context, cursor string) (Page, error)

// Pager is a lazy, restartable sequence over a paginated listing. Pages are
// fetched on demand; Reset rewinds to the first page.
type Pager struct {
	fetch  PageFunc
	cursor string
	done   bool
}

func NewPager(fetch PageFunc) *Pager {
	return &Pager{fetch: fetch}
}

// Next returns the next page of snapshots. The second return value is false
// once the sequence is exhausted.
func (p *Pager) Next(ctx context.Context) ([]ObjectSnapshot, bool, error) {
	if p.done {
		return nil, false, nil
	}

	page, err := p.fetch(ctx, p.cursor)
	if err != nil {
		return nil, false, err
	}

	p.cursor = page.NextCursor
	if !page.HasNext {
		p.done = true
	}
	return page.Snapshots, true, nil
}

// Reset rewinds the pager to the first page.
func (p *Pager) Reset() {
	p.cursor = ""
	p.done = false
}

// Collect drains the remaining pages into a single slice.
func (p *Pager) Collect(ctx context.Context) ([]ObjectSnapshot, error) {
	var all []ObjectSnapshot
	for {
		snapshots, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, snapshots...)
	}
	return all, nil
}
