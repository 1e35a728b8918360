package session

// DefaultPageSize is how many results one page shows.
const DefaultPageSize = 1000

// Pager slices a full result set into fixed-size pages.
type Pager[T any] struct {
	all  []T
	size int
	page int
	view []T
}

// NewPager returns an empty pager. size <= 0 means DefaultPageSize.
func NewPager[T any](size int) *Pager[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager[T]{size: size}
}

// SetResults replaces the result set, keeping the current page when it
// still exists.
func (p *Pager[T]) SetResults(all []T) {
	p.all = all
	p.clamp()
	p.recompute()
}

func (p *Pager[T]) clamp() {
	if last := p.TotalPages() - 1; p.page > last {
		p.page = max(last, 0)
	}
	if p.page < 0 {
		p.page = 0
	}
}

func (p *Pager[T]) recompute() {
	start, end := p.Bounds()
	p.view = p.all[start:end]
}

// Next moves forward one page. No-op on the last page.
func (p *Pager[T]) Next() {
	if p.page < p.TotalPages()-1 {
		p.page++
	}
	p.recompute()
}

// Prev moves back one page. No-op on the first page.
func (p *Pager[T]) Prev() {
	if p.page > 0 {
		p.page--
	}
	p.recompute()
}

// First jumps to page zero.
func (p *Pager[T]) First() {
	p.page = 0
	p.recompute()
}

// Last jumps to the final page.
func (p *Pager[T]) Last() {
	p.page = max(p.TotalPages()-1, 0)
	p.recompute()
}

// Bounds returns the half-open range of the current page within the full set.
func (p *Pager[T]) Bounds() (start, end int) {
	start = min(p.page*p.size, len(p.all))
	end = min(start+p.size, len(p.all))
	return start, end
}

// Items is the visible page.
func (p *Pager[T]) Items() []T { return p.view }

// All is the full result set.
func (p *Pager[T]) All() []T { return p.all }

func (p *Pager[T]) Page() int { return p.page }
func (p *Pager[T]) PageSize() int { return p.size }
func (p *Pager[T]) TotalItems() int { return len(p.all) }

// TotalPages is ceil(TotalItems / PageSize); zero when empty.
func (p *Pager[T]) TotalPages() int {
	return (len(p.all) + p.size - 1) / p.size
}
