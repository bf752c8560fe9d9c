package bibtex

import (
	"regexp"
	"strings"
)

// accentTable maps an accent marker and a base letter to the composed rune.
// Combinations missing from the table are left as written.
var accentTable = map[byte]map[byte]string{
	'\'': {
		'a': "á", 'e': "é", 'i': "í", 'o': "ó", 'u': "ú", 'y': "ý",
		'A': "Á", 'E': "É", 'I': "Í", 'O': "Ó", 'U': "Ú", 'Y': "Ý",
	},
	'`': {
		'a': "à", 'e': "è", 'i': "ì", 'o': "ò", 'u': "ù",
		'A': "À", 'E': "È", 'I': "Ì", 'O': "Ò", 'U': "Ù",
	},
	'^': {
		'a': "â", 'e': "ê", 'i': "î", 'o': "ô", 'u': "û",
		'A': "Â", 'E': "Ê", 'I': "Î", 'O': "Ô", 'U': "Û",
	},
	'"': {
		'a': "ä", 'e': "ë", 'i': "ï", 'o': "ö", 'u': "ü", 'y': "ÿ",
		'A': "Ä", 'E': "Ë", 'I': "Ï", 'O': "Ö", 'U': "Ü", 'Y': "Ÿ",
	},
	'~': {
		'a': "ã", 'n': "ñ", 'o': "õ",
		'A': "Ã", 'N': "Ñ", 'O': "Õ",
	},
	'c': {
		'c': "ç", 'C': "Ç",
	},
	'v': {
		'c': "č", 's': "š", 'z': "ž", 'r': "ř", 'e': "ě", 'n': "ň",
		'C': "Č", 'S': "Š", 'Z': "Ž", 'R': "Ř", 'E': "Ě", 'N': "Ň",
	},
}

// accentRegex matches \<marker>{?<letter>}? such as \'e, \"{o} or \v{s}.
var accentRegex = regexp.MustCompile(`\\([` + "`" + `'"^~cv])\{?([A-Za-z])\}?`)

// symbolReplacer decodes escaped symbols. A bare ~ is a non-breaking space.
var symbolReplacer = strings.NewReplacer(
	`\&`, "&",
	`\%`, "%",
	`\_`, "_",
	`\#`, "#",
	`\$`, "$",
	`\{`, "{",
	`\}`, "}",
	"~", " ",
)

var braceReplacer = strings.NewReplacer("{", "", "}", "")

// trailingSepRegex matches a dangling field separator at the end of a value.
var trailingSepRegex = regexp.MustCompile(`,\s*$`)

// LatexToUnicode decodes accent and symbol escapes and removes the
// remaining grouping braces.
func LatexToUnicode(s string) string {
	s = accentRegex.ReplaceAllStringFunc(s, func(match string) string {
		sub := accentRegex.FindStringSubmatch(match)
		if decoded, ok := accentTable[sub[1][0]][sub[2][0]]; ok {
			return decoded
		}
		return match
	})
	s = symbolReplacer.Replace(s)
	return braceReplacer.Replace(s)
}

// CleanValue normalizes a raw field value: enclosing braces and quotes are
// removed, LaTeX escapes decoded and whitespace collapsed.
//
// CleanValue is idempotent. The cleaning steps are repeated until the value
// stops changing, so a value that only becomes strippable after decoding
// (for example "{foo{,}}") is fully cleaned in one call.
func CleanValue(raw string) string {
	v := raw
	for {
		next := cleanOnce(v)
		if next == v {
			return next
		}
		v = next
	}
}

func cleanOnce(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSpace(trailingSepRegex.ReplaceAllString(v, ""))
	v = stripEnclosing(v)
	v = LatexToUnicode(v)
	return strings.Join(strings.Fields(v), " ")
}

// stripEnclosing peels matching outer {...} or "..." layers.
func stripEnclosing(v string) string {
	for len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '{' && last == '}') || (first == '"' && last == '"') {
			v = strings.TrimSpace(v[1 : len(v)-1])
			continue
		}
		break
	}
	return v
}
