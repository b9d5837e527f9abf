package game

import "testing"

func testCard(t *testing.T) Card {
	t.Helper()
	card, err := NewCardCatalog().CardFor(1)
	if err != nil {
		t.Fatalf("CardFor(1): %v", err)
	}
	return card
}

func markCells(card Card, cells ...int) map[int]bool {
	m := make(map[int]bool)
	for _, idx := range cells {
		if n := card.Numbers[idx]; n != FreeSpace {
			m[n] = true
		}
	}
	return m
}

func hasPattern(wins []Pattern, name string) bool {
	for _, w := range wins {
		if w.Name == name {
			return true
		}
	}
	return false
}

func TestVerifyWin_FourCorners(t *testing.T) {
	card := testCard(t)
	corners := markCells(card, 0, 4, 20, 24)

	wins := VerifyWin(card, corners, corners)
	if !hasPattern(wins, "four_corners") {
		t.Fatalf("four corners marked and called, got %v", wins)
	}
}

func TestVerifyWin_DiagonalUsesFreeSpace(t *testing.T) {
	card := testCard(t)
	// Main diagonal minus the free center.
	diag := markCells(card, 0, 6, 18, 24)

	wins := VerifyWin(card, diag, diag)
	if !hasPattern(wins, "diagonal") {
		t.Fatalf("diagonal with free center should win, got %v", wins)
	}
}

func TestVerifyWin_RowMissingMark(t *testing.T) {
	card := testCard(t)
	rowCells := []int{0, 5, 10, 15, 20}

	// Every row number called, one never marked.
	called := markCells(card, rowCells...)
	marked := markCells(card, 0, 5, 10, 15)

	wins := VerifyWin(card, marked, called)
	if hasPattern(wins, "row_1") {
		t.Fatal("row with a called-but-unmarked number should not be complete")
	}
}

func TestVerifyWin_MarkedButNotCalled(t *testing.T) {
	card := testCard(t)
	colCells := []int{0, 1, 2, 3, 4}

	marked := markCells(card, colCells...)
	called := markCells(card, 0, 1, 2, 3) // last column number never drawn

	wins := VerifyWin(card, marked, called)
	if hasPattern(wins, "col_b") {
		t.Fatal("a mark the server never called must not score")
	}
}

func TestVerifyWin_Column(t *testing.T) {
	card := testCard(t)
	col := markCells(card, 5, 6, 7, 8, 9)

	wins := VerifyWin(card, col, col)
	if !hasPattern(wins, "col_i") {
		t.Fatalf("column I marked and called, got %v", wins)
	}
}

func TestVerifyWin_AllPatterns(t *testing.T) {
	card := testCard(t)
	all := make([]int, 25)
	for i := range all {
		all[i] = i
	}
	full := markCells(card, all...)

	wins := VerifyWin(card, full, full)
	if len(wins) != len(winPatterns) {
		t.Fatalf("full card completes %d patterns, want %d", len(wins), len(winPatterns))
	}
}
