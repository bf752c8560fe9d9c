package reconcile

import (
	"strings"

	"github.com/matsen/bibmerge/internal/ident"
	"github.com/matsen/bibmerge/internal/reference"
)

// Key prefixes, strongest identity signal first.
const (
	KeyPrefixDOI        = "doi:"
	KeyPrefixBibKey     = "bibkey:"
	KeyPrefixExternalID = "externalid:"
	KeyPrefixFallback   = "fallback:"
	KeyPrefixTitle      = "title:"
)

// KeyFunc computes the identity key of a publication.
type KeyFunc func(reference.Publication) string

// PrimaryKey returns the strongest identity signal of p: its DOI, else its
// citation key, else its arXiv id. Publications with none of these get a
// key unique to their source entry.
func PrimaryKey(p reference.Publication) string {
	if doi := ident.NormalizeDOI(p.DOI); doi != "" {
		return KeyPrefixDOI + doi
	}
	if key := strings.ToLower(strings.TrimSpace(p.FirstKey())); key != "" {
		return KeyPrefixBibKey + key
	}
	if id := ident.ExtractArXivID(p.ArXiv); id != "" {
		return KeyPrefixExternalID + strings.ToLower(id)
	}
	return KeyPrefixFallback + p.FirstKey() + ":" + p.FirstSource()
}

// TitleKey keys p by its canonical title, falling back to PrimaryKey for
// titles with no letters or digits.
func TitleKey(p reference.Publication) string {
	if title := reference.CanonicalTitle(p.Title); title != "" {
		return KeyPrefixTitle + title
	}
	return PrimaryKey(p)
}

// Dedupe merges publications that share a key. The result is ordered by
// the first occurrence of each key.
func Dedupe(pubs []reference.Publication, keyFn KeyFunc) []reference.Publication {
	index := make(map[string]int, len(pubs))
	var out []reference.Publication

	for _, p := range pubs {
		key := keyFn(p)
		if i, ok := index[key]; ok {
			out[i] = Merge(out[i], p)
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}

	return out
}

// Result holds the survivors of both dedup passes.
type Result struct {
	Primary []reference.Publication // After the DOI/key/arXiv pass
	Final   []reference.Publication // After the title pass
}

// Reconcile runs the identity pass followed by the title pass.
func Reconcile(pubs []reference.Publication) Result {
	primary := Dedupe(pubs, PrimaryKey)
	return Result{
		Primary: primary,
		Final:   Dedupe(primary, TitleKey),
	}
}
