package reference

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Author is a single parsed author name.
type Author struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name
}

// authorSeparator splits BibTeX author lists on the word "and".
var authorSeparator = regexp.MustCompile(`(?i)\s+and\s+`)

// nameParticles stay lowercase unless they open the name.
var nameParticles = map[string]bool{
	"de": true, "da": true, "del": true, "der": true, "van": true,
	"von": true, "di": true, "la": true, "le": true, "du": true,
	"dos": true, "das": true, "den": true, "ter": true,
}

// SplitAuthors splits an "and"-joined author list into trimmed tokens.
func SplitAuthors(authors string) []string {
	authors = strings.TrimSpace(authors)
	if authors == "" {
		return nil
	}
	parts := authorSeparator.Split(authors, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, strings.TrimSpace(p))
	}
	return tokens
}

// NormalizeAuthorList normalizes every author of an "and"-joined list.
// Returns "" for an empty list.
func NormalizeAuthorList(authors string) string {
	tokens := SplitAuthors(authors)
	if len(tokens) == 0 {
		return ""
	}
	for i, tok := range tokens {
		tokens[i] = NormalizeAuthorName(tok)
	}
	return strings.Join(tokens, " and ")
}

// NormalizeAuthorName normalizes one author. "Family, Given" keeps its
// comma form; anything else is treated as a single name phrase.
func NormalizeAuthorName(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return ""
	}

	family, given, hasComma := strings.Cut(author, ",")
	if !hasComma {
		return NormalizeNamePhrase(author)
	}

	family = NormalizeNamePhrase(family)
	given = NormalizeNamePhrase(given)
	if given == "" {
		return family
	}
	return family + ", " + given
}

// NormalizeNamePhrase title-cases each word of a name phrase.
func NormalizeNamePhrase(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = capitalizeNameWord(w, i)
	}
	return strings.Join(words, " ")
}

// capitalizeNameWord applies the per-word casing rules. index is the
// word's position within its phrase.
func capitalizeNameWord(word string, index int) string {
	// Protected LaTeX is left alone
	if strings.ContainsAny(word, `{\`) {
		return word
	}
	if isAcronym(word) {
		return word
	}
	if strings.EqualFold(word, "others") {
		return "others"
	}

	base := strings.TrimRight(word, "*")
	stars := word[len(base):]

	if index > 0 && nameParticles[strings.ToLower(base)] {
		return strings.ToLower(base) + stars
	}

	var b strings.Builder
	segStart := 0
	for i, r := range base {
		if r == '-' || r == '\'' {
			b.WriteString(capitalizeSegment(base[segStart:i]))
			b.WriteRune(r)
			segStart = i + utf8.RuneLen(r)
		}
	}
	b.WriteString(capitalizeSegment(base[segStart:]))

	return b.String() + stars
}

// capitalizeSegment uppercases the first letter and lowercases the rest.
// Initials like "j." become "J.".
func capitalizeSegment(seg string) string {
	if seg == "" {
		return seg
	}
	if len(seg) == 2 && seg[1] == '.' && isASCIILetter(seg[0]) {
		return strings.ToUpper(seg[:1]) + "."
	}
	r, size := utf8.DecodeRuneInString(seg)
	return string(unicode.ToUpper(r)) + strings.ToLower(seg[size:])
}

// isAcronym reports whether word is two or more uppercase letters.
func isAcronym(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	for _, r := range word {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
