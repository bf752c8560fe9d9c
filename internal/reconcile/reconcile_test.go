package reconcile

import (
	"reflect"
	"testing"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/reference"
)

func record(key, source string, fields map[string]string) bibtex.FieldRecord {
	return bibtex.FieldRecord{Kind: "article", Key: key, Source: source, Fields: fields}
}

func TestLift(t *testing.T) {
	rec := record("Pal2020", "pal.bib", map[string]string{
		"title":         "Neural {Methods}",
		"author":        "pal, chris and van der berg, jan",
		"year":          "2020",
		"booktitle":     "Proceedings of ICML",
		"doi":           "https://doi.org/10.1/ABC",
		"eprint":        "2001.00001",
		"archiveprefix": "arXiv",
		"pages":         "1--10",
	})

	got, ok := Lift(rec)
	if !ok {
		t.Fatal("Lift() returned ok = false")
	}

	want := reference.Publication{
		Title:       "Neural Methods",
		Authors:     "Pal, Chris and Van der Berg, Jan",
		Year:        "2020",
		Venue:       "Proceedings of ICML",
		Venues:      []string{"Proceedings of ICML"},
		DOI:         "10.1/abc",
		ArXiv:       "https://arxiv.org/abs/2001.00001",
		SourceFiles: []string{"pal.bib"},
		SourceKeys:  []string{"Pal2020"},
		EntryKinds:  []string{"article"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lift() = %+v\nwant %+v", got, want)
	}
}

func TestLift_JournalPreferredOverBooktitle(t *testing.T) {
	got, ok := Lift(record("k", "a.bib", map[string]string{
		"title":     "T",
		"journal":   "JMLR",
		"booktitle": "Some Workshop",
	}))
	if !ok {
		t.Fatal("Lift() returned ok = false")
	}
	if got.Venue != "JMLR" {
		t.Errorf("Venue = %q, want JMLR", got.Venue)
	}
}

func TestLift_ArXivFromURLThenVenue(t *testing.T) {
	fromVenue, _ := Lift(record("k", "a.bib", map[string]string{
		"title":   "T",
		"journal": "arXiv preprint arXiv:1810.04805",
	}))
	if fromVenue.ArXiv != "https://arxiv.org/abs/1810.04805" {
		t.Errorf("ArXiv = %q, want link derived from venue", fromVenue.ArXiv)
	}

	fromURL, _ := Lift(record("k", "a.bib", map[string]string{
		"title":   "T",
		"url":     "https://arxiv.org/abs/1706.03762",
		"journal": "arXiv preprint arXiv:1810.04805",
	}))
	if fromURL.ArXiv != "https://arxiv.org/abs/1706.03762" {
		t.Errorf("ArXiv = %q, want link derived from url", fromURL.ArXiv)
	}
}

func TestLift_NoTitle(t *testing.T) {
	tests := []map[string]string{
		{"author": "Smith, John"},
		{"title": "{ }"},
		{},
	}
	for _, fields := range tests {
		if _, ok := Lift(record("k", "a.bib", fields)); ok {
			t.Errorf("Lift(%v) returned ok = true, want false", fields)
		}
	}
}

func TestPrimaryKey(t *testing.T) {
	tests := []struct {
		name string
		pub  reference.Publication
		want string
	}{
		{
			name: "doi wins",
			pub:  reference.Publication{DOI: "10.1/ABC", SourceKeys: []string{"K"}},
			want: "doi:10.1/abc",
		},
		{
			name: "bibkey lowercased",
			pub:  reference.Publication{SourceKeys: []string{"Smith2020"}, ArXiv: "https://arxiv.org/abs/2001.00001"},
			want: "bibkey:smith2020",
		},
		{
			name: "external id",
			pub:  reference.Publication{ArXiv: "https://arxiv.org/abs/hep-TH/9901001", SourceFiles: []string{"a.bib"}},
			want: "externalid:hep-th/9901001",
		},
		{
			name: "fallback",
			pub:  reference.Publication{SourceFiles: []string{"a.bib"}},
			want: "fallback::a.bib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryKey(tt.pub); got != tt.want {
				t.Errorf("PrimaryKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitleKey(t *testing.T) {
	if got := TitleKey(reference.Publication{Title: "Deep Learning!"}); got != "title:deep learning" {
		t.Errorf("TitleKey() = %q, want title:deep learning", got)
	}

	punct := reference.Publication{Title: "???", SourceKeys: []string{"q"}}
	if got := TitleKey(punct); got != "bibkey:q" {
		t.Errorf("TitleKey() = %q, want fallback to bibkey:q", got)
	}
}

func TestReconcile_DOIVariantsMerge(t *testing.T) {
	a, _ := Lift(record("one", "a.bib", map[string]string{
		"title":  "A Study of Things",
		"author": "Pal, Chris",
		"doi":    "10.1/ABC",
	}))
	b, _ := Lift(record("two", "b.bib", map[string]string{
		"title":  "A study of things.",
		"author": "Pal, Chris and Doe, Jane",
		"doi":    "https://doi.org/10.1/ABC",
	}))

	res := Reconcile([]reference.Publication{a, b})
	if len(res.Primary) != 1 {
		t.Fatalf("len(Primary) = %d, want 1", len(res.Primary))
	}
	if len(res.Final) != 1 {
		t.Fatalf("len(Final) = %d, want 1", len(res.Final))
	}

	got := res.Final[0]
	if got.DOI != "10.1/abc" {
		t.Errorf("DOI = %q, want 10.1/abc", got.DOI)
	}
	if got.Authors != "Pal, Chris and Doe, Jane" {
		t.Errorf("Authors = %q, want the longer author list", got.Authors)
	}
	if want := []string{"one", "two"}; !reflect.DeepEqual(got.SourceKeys, want) {
		t.Errorf("SourceKeys = %q, want %q", got.SourceKeys, want)
	}
}

func TestReconcile_TitlePass(t *testing.T) {
	journal, _ := Lift(record("smith2020", "a.bib", map[string]string{
		"title":   "Graph Networks: A Review",
		"journal": "Nature Reviews",
		"year":    "2020",
	}))
	preprint, _ := Lift(record("Smith2019arxiv", "b.bib", map[string]string{
		"title":   "Graph networks -- a review",
		"journal": "arXiv preprint arXiv:1901.00001",
		"year":    "2019",
	}))
	other, _ := Lift(record("other", "b.bib", map[string]string{
		"title": "Something Else",
	}))

	res := Reconcile([]reference.Publication{journal, preprint, other})
	if len(res.Primary) != 3 {
		t.Fatalf("len(Primary) = %d, want 3", len(res.Primary))
	}
	if len(res.Final) != 2 {
		t.Fatalf("len(Final) = %d, want 2", len(res.Final))
	}

	merged := res.Final[0]
	if merged.Venue != "Nature Reviews" {
		t.Errorf("Venue = %q, want Nature Reviews", merged.Venue)
	}
	if merged.ArXiv != "https://arxiv.org/abs/1901.00001" {
		t.Errorf("ArXiv = %q, want preprint link", merged.ArXiv)
	}
	if res.Final[1].Title != "Something Else" {
		t.Errorf("Final[1].Title = %q, want Something Else", res.Final[1].Title)
	}
}

func TestReconcile_SameKeyAcrossFiles(t *testing.T) {
	a, _ := Lift(record("Key1", "a.bib", map[string]string{"title": "First Title"}))
	b, _ := Lift(record("key1", "b.bib", map[string]string{"title": "Completely Different"}))

	res := Reconcile([]reference.Publication{a, b})
	if len(res.Final) != 1 {
		t.Fatalf("len(Final) = %d, want 1 (keys match case-insensitively)", len(res.Final))
	}
	if want := []string{"a.bib", "b.bib"}; !reflect.DeepEqual(res.Final[0].SourceFiles, want) {
		t.Errorf("SourceFiles = %q, want %q", res.Final[0].SourceFiles, want)
	}
}

func TestDedupe_PreservesFirstOccurrenceOrder(t *testing.T) {
	pubs := []reference.Publication{
		{Title: "B", SourceKeys: []string{"b"}},
		{Title: "A", SourceKeys: []string{"a"}},
		{Title: "B again", SourceKeys: []string{"b"}},
	}
	got := Dedupe(pubs, PrimaryKey)
	if len(got) != 2 {
		t.Fatalf("len(Dedupe()) = %d, want 2", len(got))
	}
	if got[0].Title != "B again" || got[1].Title != "A" {
		t.Errorf("Dedupe() titles = %q, %q", got[0].Title, got[1].Title)
	}
}
