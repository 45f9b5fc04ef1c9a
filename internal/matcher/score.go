package matcher

// Scoring constants, carried over verbatim in meaning from
// original_source/matcher/src/score.rs.
const (
	ScoreMatch          uint16 = 16
	PenaltyGapStart     uint16 = 3
	PenaltyGapExtension uint16 = 1
	PrefixBonusScale    uint16 = 2

	BonusBoundary  uint16 = ScoreMatch / 2
	BonusCamel123  uint16 = BonusBoundary - PenaltyGapStart
	BonusNonWord   uint16 = BonusBoundary
	BonusConsecutive uint16 = PenaltyGapStart + PenaltyGapExtension

	BonusFirstCharMultiplier uint16 = 2
	MaxPrefixBonus           uint16 = BonusBoundary
)

func (c Config) bonusFor(prevClass, class CharClass) uint16 {
	if class > ClassDelimiter {
		switch prevClass {
		case ClassWhitespace:
			return c.BonusBoundaryWhite
		case ClassDelimiter:
			return c.BonusBoundaryDelimiter
		case ClassNonWord:
			return BonusBoundary
		}
	}
	switch {
	case prevClass == ClassLower && class == ClassUpper:
		return BonusCamel123
	case prevClass != ClassNumber && class == ClassNumber:
		return BonusCamel123
	case class == ClassWhitespace:
		return c.BonusBoundaryWhite
	case class == ClassNonWord:
		return BonusNonWord
	default:
		return 0
	}
}

func saturatingSub(a, b uint16) uint16 {
	if b >= a {
		return 0
	}
	return a - b
}

func saturatingAdd(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	if sum > 0xFFFF {
		return 0xFFFF
	}
	return uint16(sum)
}

// calculateScore implements the greedy single-pass scoring of score.rs's
// calculate_score: haystackNorm[start:end] is assumed to already contain
// every needle rune in order (established by the prefilter or by the DP
// backtrace); this walks it once, accumulating match/boundary bonuses
// and gap penalties. needle is pre-folded/normalized per the atom's
// settings; haystackOrig supplies the un-folded runes classify() needs
// so an upper/lower transition still reads as a camelCase boundary even
// when the comparison itself is case-insensitive.
func (cfg Config) calculateScore(haystackOrig, haystackNorm, needle []rune, start, end int, withIndices bool, indices *[]int) uint16 {
	if withIndices {
		*indices = append(*indices, start)
	}

	prevClass := cfg.InitialCharClass
	if start > 0 {
		prevClass = classify(haystackOrig[start-1])
	}

	needleIdx := 1
	class := classify(haystackOrig[start])
	firstBonus := cfg.bonusFor(prevClass, class)
	score := saturatingAdd(ScoreMatch, firstBonus*BonusFirstCharMultiplier)
	prevClass = class

	inGap := false
	consecutive := 1

	for i := start + 1; i < end; i++ {
		class = classify(haystackOrig[i])

		if needleIdx < len(needle) && haystackNorm[i] == needle[needleIdx] {
			if withIndices {
				*indices = append(*indices, i)
			}
			bonus := cfg.bonusFor(prevClass, class)
			if consecutive != 0 {
				if bonus >= BonusBoundary && bonus > firstBonus {
					firstBonus = bonus
				}
				bonus = maxU16(maxU16(bonus, firstBonus), BonusConsecutive)
			} else {
				firstBonus = bonus
			}
			score = saturatingAdd(score, saturatingAdd(ScoreMatch, bonus))
			inGap = false
			consecutive++
			needleIdx++
		} else {
			penalty := PenaltyGapStart
			if inGap {
				penalty = PenaltyGapExtension
			}
			score = saturatingSub(score, penalty)
			inGap = true
			consecutive = 0
		}
		prevClass = class

		if needleIdx >= len(needle) {
			break
		}
	}

	if cfg.PreferPrefix {
		if start != 0 {
			penalty := PenaltyGapStart + PenaltyGapStart*uint16(minInt(start-1, 0xFFFF))
			score = saturatingAdd(score, saturatingSub(MaxPrefixBonus, penalty/PrefixBonusScale))
		} else {
			score = saturatingAdd(score, MaxPrefixBonus)
		}
	}

	return score
}

func maxU16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
