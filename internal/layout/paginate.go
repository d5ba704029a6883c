// Package layout distributes measured content blocks into fixed-height
// pages. It is a pure library: block heights are measured (or estimated)
// by the caller, and identical inputs always produce identical pages.
package layout

// Block is one atomic unit of column content. A block is never split
// across pages; a block taller than the available height occupies a page
// alone and overflows visually.
type Block struct {
	ID     string  `json:"id"`
	Height float64 `json:"height"`
}

// Geometry describes the fixed page frame. The header deduction is applied
// uniformly to every page.
type Geometry struct {
	PageHeight      float64 `json:"pageHeight"`
	VerticalPadding float64 `json:"verticalPadding"`
	HeaderHeight    float64 `json:"headerHeight"`
	HeaderMargin    float64 `json:"headerMargin"`
	BlockGap        float64 `json:"blockGap"`
	// DefaultHeight substitutes for unmeasured blocks (Height <= 0).
	// Zero means the standard estimate of 100.
	DefaultHeight float64 `json:"defaultHeight,omitempty"`
}

const fallbackBlockHeight = 100

// AvailableHeight is the usable content height per page.
func (g Geometry) AvailableHeight() float64 {
	return g.PageHeight - 2*g.VerticalPadding - g.HeaderHeight - g.HeaderMargin
}

// Page holds the blocks assigned to one rendered page, per column.
type Page struct {
	Left  []Block `json:"left"`
	Right []Block `json:"right"`
}

// Paginate packs the two column lists independently and zips them into a
// page sequence. At least one page is always produced; a page index beyond
// a column's own page count leaves that column empty.
func Paginate(left, right []Block, g Geometry) []Page {
	leftPages := packColumn(left, g)
	rightPages := packColumn(right, g)

	count := len(leftPages)
	if len(rightPages) > count {
		count = len(rightPages)
	}
	if count == 0 {
		count = 1
	}

	pages := make([]Page, count)
	for i := range pages {
		pages[i] = Page{Left: []Block{}, Right: []Block{}}
		if i < len(leftPages) {
			pages[i].Left = leftPages[i]
		}
		if i < len(rightPages) {
			pages[i].Right = rightPages[i]
		}
	}
	return pages
}

// packColumn greedily fills pages in block order. A gap is charged only
// between blocks sharing a page, and a block moves to a fresh page only
// when the current page already holds something.
func packColumn(blocks []Block, g Geometry) [][]Block {
	available := g.AvailableHeight()
	fallback := g.DefaultHeight
	if fallback <= 0 {
		fallback = fallbackBlockHeight
	}

	var pages [][]Block
	var current []Block
	used := 0.0

	for _, block := range blocks {
		height := block.Height
		if height <= 0 {
			height = fallback
		}
		gap := 0.0
		if len(current) > 0 {
			gap = g.BlockGap
		}
		if used+gap+height > available && len(current) > 0 {
			pages = append(pages, current)
			current = []Block{block}
			used = height
			continue
		}
		current = append(current, block)
		used += gap + height
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}
