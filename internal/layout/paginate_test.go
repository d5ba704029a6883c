package layout

import (
	"fmt"
	"reflect"
	"testing"
)

var testGeometry = Geometry{
	PageHeight:      1123,
	VerticalPadding: 40,
	HeaderHeight:    0,
	HeaderMargin:    0,
	BlockGap:        16,
}

func blockIDs(blocks []Block) []string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}

func flatten(pages []Page, left bool) []string {
	var ids []string
	for _, p := range pages {
		col := p.Left
		if !left {
			col = p.Right
		}
		ids = append(ids, blockIDs(col)...)
	}
	return ids
}

func TestPaginateTwoTallBlocks(t *testing.T) {
	g := Geometry{PageHeight: 1000, BlockGap: 10}
	// availableHeight = 1000; two 900px blocks cannot share a page.
	pages := Paginate([]Block{{ID: "a", Height: 900}, {ID: "b", Height: 900}}, nil, g)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if len(pages[0].Left) != 1 || pages[0].Left[0].ID != "a" {
		t.Fatalf("expected block a alone on page 1, got %v", blockIDs(pages[0].Left))
	}
	if len(pages[1].Left) != 1 || pages[1].Left[0].ID != "b" {
		t.Fatalf("expected block b alone on page 2, got %v", blockIDs(pages[1].Left))
	}
}

func TestPaginateCompletenessAndOrder(t *testing.T) {
	var left, right []Block
	for i := 0; i < 23; i++ {
		left = append(left, Block{ID: fmt.Sprintf("l%d", i), Height: float64(80 + (i*37)%400)})
	}
	for i := 0; i < 9; i++ {
		right = append(right, Block{ID: fmt.Sprintf("r%d", i), Height: float64(120 + (i*91)%500)})
	}

	pages := Paginate(left, right, testGeometry)

	if got := flatten(pages, true); !reflect.DeepEqual(got, blockIDs(left)) {
		t.Fatalf("left column not reproduced in order:\n got %v\nwant %v", got, blockIDs(left))
	}
	if got := flatten(pages, false); !reflect.DeepEqual(got, blockIDs(right)) {
		t.Fatalf("right column not reproduced in order:\n got %v\nwant %v", got, blockIDs(right))
	}

	// No page exceeds the available height (oversized single blocks aside).
	for pi, p := range pages {
		for _, col := range [][]Block{p.Left, p.Right} {
			used := 0.0
			for i, b := range col {
				if i > 0 {
					used += testGeometry.BlockGap
				}
				used += b.Height
			}
			if len(col) > 1 && used > testGeometry.AvailableHeight() {
				t.Fatalf("page %d overfilled: %.0f > %.0f", pi, used, testGeometry.AvailableHeight())
			}
		}
	}
}

func TestPaginateDeterministic(t *testing.T) {
	var left []Block
	for i := 0; i < 40; i++ {
		left = append(left, Block{ID: fmt.Sprintf("b%d", i), Height: float64(60 + (i*53)%350)})
	}
	a := Paginate(left, nil, testGeometry)
	b := Paginate(left, nil, testGeometry)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different page partitions")
	}
}

func TestPaginateEmptyColumnsProduceOnePage(t *testing.T) {
	pages := Paginate(nil, nil, testGeometry)
	if len(pages) != 1 {
		t.Fatalf("expected exactly 1 page for empty input, got %d", len(pages))
	}
	if len(pages[0].Left) != 0 || len(pages[0].Right) != 0 {
		t.Fatal("expected empty page")
	}
}

func TestPaginateColumnIndependence(t *testing.T) {
	left := []Block{{ID: "l0", Height: 2000}, {ID: "l1", Height: 2000}, {ID: "l2", Height: 2000}}
	right := []Block{{ID: "r0", Height: 100}}
	pages := Paginate(left, right, testGeometry)
	if len(pages) != 3 {
		t.Fatalf("expected max(3,1) = 3 pages, got %d", len(pages))
	}
	// Right column renders empty beyond its own page count.
	if len(pages[1].Right) != 0 || len(pages[2].Right) != 0 {
		t.Fatal("expected right column empty on pages 2 and 3")
	}
}

func TestPaginateOversizedBlockOccupiesOwnPage(t *testing.T) {
	left := []Block{
		{ID: "small", Height: 100},
		{ID: "huge", Height: 5000},
		{ID: "tail", Height: 100},
	}
	pages := Paginate(left, nil, testGeometry)
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if len(pages[1].Left) != 1 || pages[1].Left[0].ID != "huge" {
		t.Fatalf("expected oversized block alone on its page, got %v", blockIDs(pages[1].Left))
	}
}

func TestPaginateUnmeasuredBlocksUseDefaultEstimate(t *testing.T) {
	g := Geometry{PageHeight: 250}
	// Three unmeasured blocks at the 100px default: two fit, the third spills.
	pages := Paginate([]Block{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil, g)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if got := blockIDs(pages[0].Left); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected first page: %v", got)
	}
}
