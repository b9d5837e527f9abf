package game

// Pattern is a named set of cell indexes (column-major) that constitutes a
// win when every cell is marked and called.
type Pattern struct {
	Name  string `json:"name"`
	Cells []int  `json:"cells"`
}

// winPatterns: 5 rows, 5 columns, both diagonals, four corners. Cell index
// is col*5+row.
var winPatterns = buildPatterns()

func buildPatterns() []Pattern {
	var ps []Pattern
	rowNames := [5]string{"row_1", "row_2", "row_3", "row_4", "row_5"}
	for row := 0; row < 5; row++ {
		cells := make([]int, 5)
		for col := 0; col < 5; col++ {
			cells[col] = col*5 + row
		}
		ps = append(ps, Pattern{Name: rowNames[row], Cells: cells})
	}
	colNames := [5]string{"col_b", "col_i", "col_n", "col_g", "col_o"}
	for col := 0; col < 5; col++ {
		cells := make([]int, 5)
		for row := 0; row < 5; row++ {
			cells[row] = col*5 + row
		}
		ps = append(ps, Pattern{Name: colNames[col], Cells: cells})
	}
	diag := make([]int, 5)
	anti := make([]int, 5)
	for i := 0; i < 5; i++ {
		diag[i] = i*5 + i
		anti[i] = (4-i)*5 + i
	}
	ps = append(ps,
		Pattern{Name: "diagonal", Cells: diag},
		Pattern{Name: "anti_diagonal", Cells: anti},
		Pattern{Name: "four_corners", Cells: []int{0, 4, 20, 24}},
	)
	return ps
}

// VerifyWin returns every pattern complete on card. A cell counts when it
// holds the free space, or when its number is both marked by the player and
// present in the server's call log. Requiring the call log is the anti-cheat
// check: a mark the server never called does not score.
func VerifyWin(card Card, marked, called map[int]bool) []Pattern {
	var wins []Pattern
	for _, p := range winPatterns {
		if patternComplete(card, p, marked, called) {
			wins = append(wins, p)
		}
	}
	return wins
}

func patternComplete(card Card, p Pattern, marked, called map[int]bool) bool {
	for _, idx := range p.Cells {
		n := card.Numbers[idx]
		if n == FreeSpace {
			continue
		}
		if !marked[n] || !called[n] {
			return false
		}
	}
	return true
}
