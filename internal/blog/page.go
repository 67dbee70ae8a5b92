package blog

// Page describes one page of a listing.
type Page struct {
	ItemCount   int64 `json:"item_count"`
	Index       int   `json:"page_index"`
	Size        int   `json:"page_size"`
	Count       int   `json:"page_count"`
	Offset      int   `json:"offset"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPage computes the window for page index of size over total items.
// An index past the last page, or an empty listing, yields an empty first page.
func NewPage(total int64, index, size int) Page {
	p := Page{ItemCount: total, Index: max(index, 1), Size: size}
	if size > 0 {
		p.Count = int((total + int64(size) - 1) / int64(size))
	}
	if total == 0 || p.Index > p.Count {
		p.Index = 1
	} else {
		p.Offset = size * (p.Index - 1)
		p.Limit = size
	}
	p.HasNext = p.Index < p.Count
	p.HasPrevious = p.Index > 1
	return p
}

// Empty reports whether the page holds no items.
func (p Page) Empty() bool { return p.Limit == 0 }
