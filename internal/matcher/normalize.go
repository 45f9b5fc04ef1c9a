package matcher

import "unicode"

// foldRune lower-cases r for case-insensitive comparison. ASCII takes a
// fast path without table lookups; everything else defers to unicode.ToLower, which
// is the same approach chars/normalize.rs takes (delegate to the
// language's own Unicode tables rather than hand-rolling one).
func foldRune(r rune) rune {
	if r < unicode.MaxASCII {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}
	return unicode.ToLower(r)
}

// asciiBase maps an accented Latin letter or common typographic variant
// to its plain ASCII base, per spec §4.4: "a static table maps accented
// Latin letters and common variants to their ASCII base." Only the
// common Latin-1 Supplement and Latin Extended-A ranges a vault's prose
// is likely to contain are covered; anything absent from the table
// normalizes to itself.
var asciiBase = map[rune]rune{
	'À': 'A', 'Á': 'A', 'Â': 'A', 'Ã': 'A', 'Ä': 'A', 'Å': 'A', 'Ā': 'A', 'Ă': 'A', 'Ą': 'A',
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a', 'ă': 'a', 'ą': 'a',
	'Ç': 'C', 'Ć': 'C', 'Ĉ': 'C', 'Ċ': 'C', 'Č': 'C',
	'ç': 'c', 'ć': 'c', 'ĉ': 'c', 'ċ': 'c', 'č': 'c',
	'Ð': 'D', 'Ď': 'D', 'Đ': 'D',
	'ð': 'd', 'ď': 'd', 'đ': 'd',
	'È': 'E', 'É': 'E', 'Ê': 'E', 'Ë': 'E', 'Ē': 'E', 'Ĕ': 'E', 'Ė': 'E', 'Ę': 'E', 'Ě': 'E',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ĕ': 'e', 'ė': 'e', 'ę': 'e', 'ě': 'e',
	'Ì': 'I', 'Í': 'I', 'Î': 'I', 'Ï': 'I', 'Ī': 'I', 'Ĭ': 'I', 'Į': 'I', 'İ': 'I',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i', 'ĭ': 'i', 'į': 'i', 'ı': 'i',
	'Ñ': 'N', 'Ń': 'N', 'Ņ': 'N', 'Ň': 'N',
	'ñ': 'n', 'ń': 'n', 'ņ': 'n', 'ň': 'n',
	'Ò': 'O', 'Ó': 'O', 'Ô': 'O', 'Õ': 'O', 'Ö': 'O', 'Ø': 'O', 'Ō': 'O', 'Ŏ': 'O', 'Ő': 'O',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o', 'ŏ': 'o', 'ő': 'o',
	'Ù': 'U', 'Ú': 'U', 'Û': 'U', 'Ü': 'U', 'Ū': 'U', 'Ŭ': 'U', 'Ů': 'U', 'Ű': 'U', 'Ų': 'U',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u', 'ŭ': 'u', 'ů': 'u', 'ű': 'u', 'ų': 'u',
	'Ý': 'Y', 'Ÿ': 'Y',
	'ý': 'y', 'ÿ': 'y',
	'Ś': 'S', 'Ŝ': 'S', 'Ş': 'S', 'Š': 'S',
	'ś': 's', 'ŝ': 's', 'ş': 's', 'š': 's',
	'Ź': 'Z', 'Ż': 'Z', 'Ž': 'Z',
	'ź': 'z', 'ż': 'z', 'ž': 'z',
	'Ł': 'L', 'ł': 'l',
	'Œ': 'O', 'œ': 'o',
	'Æ': 'A', 'æ': 'a',
	'‘': '\'', '’': '\'', '“': '"', '”': '"', '–': '-', '—': '-',
}

// normalizeToASCII folds r to its ASCII base per asciiBase, leaving
// anything not in the table unchanged.
func normalizeToASCII(r rune) rune {
	if base, ok := asciiBase[r]; ok {
		return base
	}
	return r
}
