package layout

// Reorder moves the block with moveID next to the block with anchorID in
// the full column list. Position is resolved by locating the anchor's id,
// not by numeric index: the paginated per-page slices and the full list do
// not share indexing. Returns false if either id is absent.
func Reorder(blocks []Block, moveID, anchorID string, before bool) ([]Block, bool) {
	if moveID == anchorID {
		return blocks, true
	}
	moving, rest, ok := extract(blocks, moveID)
	if !ok {
		return blocks, false
	}
	out, ok := insertAdjacent(rest, moving, anchorID, before)
	if !ok {
		return blocks, false
	}
	return out, true
}

// Move transfers the block with moveID from src into dst, placed relative
// to anchorID in dst. An empty anchorID appends to the end of dst (dropping
// onto an empty column or past the last block).
func Move(src, dst []Block, moveID, anchorID string, before bool) (newSrc, newDst []Block, ok bool) {
	moving, rest, found := extract(src, moveID)
	if !found {
		return src, dst, false
	}
	if anchorID == "" {
		return rest, append(append([]Block{}, dst...), moving), true
	}
	out, found := insertAdjacent(dst, moving, anchorID, before)
	if !found {
		return src, dst, false
	}
	return rest, out, true
}

func extract(blocks []Block, id string) (Block, []Block, bool) {
	for i, b := range blocks {
		if b.ID == id {
			rest := make([]Block, 0, len(blocks)-1)
			rest = append(rest, blocks[:i]...)
			rest = append(rest, blocks[i+1:]...)
			return b, rest, true
		}
	}
	return Block{}, blocks, false
}

func insertAdjacent(blocks []Block, moving Block, anchorID string, before bool) ([]Block, bool) {
	for i, b := range blocks {
		if b.ID != anchorID {
			continue
		}
		at := i
		if !before {
			at = i + 1
		}
		out := make([]Block, 0, len(blocks)+1)
		out = append(out, blocks[:at]...)
		out = append(out, moving)
		out = append(out, blocks[at:]...)
		return out, true
	}
	return blocks, false
}
