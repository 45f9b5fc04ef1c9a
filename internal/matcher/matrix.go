package matcher

// Matrix caps and slab sizing from spec §4.4: optimal matching is only
// attempted when |haystack|*|needle| fits the budget; larger inputs fall
// back to the greedy algorithm.
const (
	maxHaystackLen = 2048
	maxNeedleLen   = 2048
	maxMatrixCells = 100_000          // |haystack| * |needle| budget
	slabCells      = 135_000 / 16 // ≈135KB: a matrixCell is 16 bytes on 64-bit platforms
)

// matrixCell is one DP cell of the optimal fuzzy matcher: the best score
// of matching needle[0:row] against haystack ending with needle[row-1]
// matched exactly at this column, the boundary bonus the consecutive run
// ending here carries forward, plus a backpointer to the haystack
// column (1-indexed, 0 = none) that needle[row-2]'s match used, so the
// best path can be walked backward to reconstruct indices.
type matrixCell struct {
	score uint16
	valid bool
	bonus uint16
	back  int
}

// slab is the reusable matrix buffer a Matcher owns across calls (spec
// §4.4: "matrices are drawn from a reusable slab... zero allocation on
// the hot path is a target"). cells is grown, never shrunk.
type slab struct {
	cells []matrixCell
}

func newSlab() *slab {
	return &slab{cells: make([]matrixCell, 0, slabCells)}
}

// grant returns a rows*cols window into the slab (rows = needle length,
// cols = haystack length, both 0-indexed sizes — the DP matrix itself
// uses 1-indexed row/col addressing within this window for convenience).
// Returns ok=false if the request exceeds the budget; the caller falls
// back to the greedy algorithm.
func (s *slab) grant(rows, cols int) (m *dpMatrix, ok bool) {
	if rows <= 0 || cols <= 0 {
		return nil, false
	}
	if rows > maxNeedleLen || cols > maxHaystackLen || rows*cols > maxMatrixCells {
		return nil, false
	}
	need := rows * cols
	if cap(s.cells) < need {
		s.cells = make([]matrixCell, need)
	} else {
		s.cells = s.cells[:need]
	}
	for i := range s.cells {
		s.cells[i] = matrixCell{}
	}
	return &dpMatrix{cells: s.cells, rows: rows, cols: cols}, true
}

// dpMatrix is a rows (needle length) x cols (haystack length) view into
// a slab, addressed with 1-indexed row/col for DP convenience (row 0 /
// col 0 are never read).
type dpMatrix struct {
	cells []matrixCell
	rows  int
	cols  int
}

func (m *dpMatrix) at(row, col int) matrixCell {
	return m.cells[(row-1)*m.cols+(col-1)]
}

func (m *dpMatrix) set(row, col int, v matrixCell) {
	m.cells[(row-1)*m.cols+(col-1)] = v
}
