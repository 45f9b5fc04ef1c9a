package matcher

// fuzzy.go implements the two fuzzy strategies of spec §4.4: a greedy
// O(n) left-to-right scan (fuzzy_greedy) and an optimal DP scan bounded
// by the slab budget (fuzzy_optimal.rs), with automatic fallback from
// optimal to greedy when the budget is exceeded.

// greedyFuzzy finds the leftmost subsequence occurrence of needle in
// haystackNorm, then narrows its start as far right as possible without
// losing any match (the same "find end, then tighten start" two-pass
// shape fuzzy matchers commonly use), and scores the resulting bracket.
func (m *Matcher) greedyFuzzy(haystackOrig, haystackNorm, needle []rune, withIndices bool, indices *[]int) (uint16, bool) {
	if len(needle) == 0 {
		return 0, false
	}
	end, ok := greedyBracketEnd(haystackNorm, needle)
	if !ok {
		return 0, false
	}
	start := tightenBracketStart(haystackNorm, needle, end)
	return m.cfg.calculateScore(haystackOrig, haystackNorm, needle, start, end, withIndices, indices), true
}

// greedyBracketEnd returns one past the haystack index where the last
// needle rune is first satisfied scanning left to right, i.e. the end
// of the leftmost-greedy bracket.
func greedyBracketEnd(haystackNorm, needle []rune) (int, bool) {
	ni := 0
	for i, c := range haystackNorm {
		if c == needle[ni] {
			ni++
			if ni == len(needle) {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// tightenBracketStart scans backward from end-1 to find the rightmost
// (narrowest) start position that still contains every needle rune in
// order, matching it backward.
func tightenBracketStart(haystackNorm, needle []rune, end int) int {
	ni := len(needle) - 1
	start := end - 1
	for i := end - 1; i >= 0; i-- {
		if haystackNorm[i] == needle[ni] {
			start = i
			ni--
			if ni < 0 {
				break
			}
		}
	}
	return start
}

// optimalFuzzy runs the DP matcher bounded by the Matcher's slab budget.
// Returns ok=false when the input exceeds the budget (matrix.go's
// grant); the caller falls back to greedyFuzzy in that case.
func (m *Matcher) optimalFuzzy(haystackOrig, haystackNorm, needle []rune, withIndices bool, indices *[]int) (uint16, bool, bool) {
	rows, cols := len(needle), len(haystackNorm)
	if rows == 0 || rows > cols {
		return 0, false, true
	}
	mat, ok := m.slab.grant(rows, cols)
	if !ok {
		return 0, false, false
	}

	var prevClass CharClass
	for row := 1; row <= rows; row++ {
		// carryScore/carryCol/carryValid track the best needle[row-2]
		// match from an earlier column (col <= current-2), decayed by
		// gap penalty as col advances; the immediate predecessor column
		// (col-1) is checked directly below as the consecutive case.
		var carryScore uint16
		var carryCol int
		var carryValid, inGap bool

		for col := 1; col <= cols; col++ {
			if carryValid {
				if inGap {
					carryScore = saturatingSub(carryScore, PenaltyGapExtension)
				} else {
					carryScore = saturatingSub(carryScore, PenaltyGapStart)
					inGap = true
				}
			}

			if haystackNorm[col-1] == needle[row-1] {
				if col >= 2 {
					prevClass = classify(haystackOrig[col-2])
				} else {
					prevClass = m.cfg.InitialCharClass
				}
				class := classify(haystackOrig[col-1])
				bonus := m.cfg.bonusFor(prevClass, class)

				var cell matrixCell
				switch {
				case row == 1:
					cell = matrixCell{
						score: saturatingAdd(ScoreMatch, bonus*BonusFirstCharMultiplier),
						valid: true,
						bonus: bonus,
					}
				default:
					var consecScore, consecBonus uint16
					var consecValid bool
					var prev matrixCell // column 0 has no cell: no consecutive predecessor
					if col >= 2 {
						prev = mat.at(row-1, col-1)
					}
					if prev.valid {
						// A consecutive run keeps the strongest boundary
						// bonus since its start, as calculateScore does.
						consecBonus = prev.bonus
						if bonus >= BonusBoundary && bonus > consecBonus {
							consecBonus = bonus
						}
						cbonus := maxU16(maxU16(bonus, consecBonus), BonusConsecutive)
						consecScore = saturatingAdd(prev.score, saturatingAdd(ScoreMatch, cbonus))
						consecValid = true
					}
					var gapScore uint16
					var gapValid bool
					if carryValid {
						gapScore = saturatingAdd(carryScore, saturatingAdd(ScoreMatch, bonus))
						gapValid = true
					}
					switch {
					case consecValid && (!gapValid || consecScore >= gapScore):
						cell = matrixCell{score: consecScore, valid: true, bonus: consecBonus, back: col - 1}
					case gapValid:
						cell = matrixCell{score: gapScore, valid: true, bonus: bonus, back: carryCol}
					}
				}
				mat.set(row, col, cell)
			}

			if row > 1 {
				if anchor := mat.at(row-1, col); anchor.valid {
					if !carryValid || anchor.score > carryScore {
						carryScore = anchor.score
						carryCol = col
						carryValid = true
						inGap = false
					}
				}
			}
		}
	}

	best := mat.at(rows, cols)
	bestCol := cols
	for col := 1; col <= cols; col++ {
		if c := mat.at(rows, col); c.valid && (!best.valid || c.score > best.score) {
			best = c
			bestCol = col
		}
	}
	if !best.valid {
		return 0, false, true
	}

	if m.cfg.PreferPrefix {
		col := bestCol
		for row := rows; row > 1; row-- {
			col = mat.at(row, col).back
		}
		if start := col - 1; start != 0 {
			penalty := PenaltyGapStart + PenaltyGapStart*uint16(minInt(start-1, 0xFFFF))
			best.score = saturatingAdd(best.score, saturatingSub(MaxPrefixBonus, penalty/PrefixBonusScale))
		} else {
			best.score = saturatingAdd(best.score, MaxPrefixBonus)
		}
	}

	if withIndices {
		idxCols := make([]int, rows)
		col := bestCol
		for row := rows; row >= 1; row-- {
			idxCols[row-1] = col - 1
			col = mat.at(row, col).back
		}
		*indices = append(*indices, idxCols...)
	}
	return best.score, true, true
}
