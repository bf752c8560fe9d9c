package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

const firstBib = `@article{pal2019,
  title = {Learning to Reason},
  author = {pal, chris and doe, jane},
  journal = {Journal of Things},
  year = {2019},
  doi = {10.1/ABC}
}

@comment{exported by a reference manager}
`

const secondBib = `@misc{Pal2019preprint,
  title = {Learning to reason.},
  author = {Pal, C.},
  journal = {arXiv preprint arXiv:1901.00001},
  year = {2018},
  doi = {https://doi.org/10.1/abc}
}

@article{truncated,
  title = {This entry never ends},
  year = {2020},
`

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	// Written in reverse order; processing must follow sorted paths
	writeFile(t, dir, "b.bib", secondBib)
	writeFile(t, dir, "a.bib", firstBib)
	writeFile(t, dir, "notes.txt", "@article{ignored, title = {Not a bib file}}")

	res, err := RunDir(dir)
	if err != nil {
		t.Fatalf("RunDir() error = %v", err)
	}

	want := Stats{
		Files:      2,
		Entries:    4,
		Incomplete: 1,
		Parsed:     2,
		Untitled:   1,
		Primary:    1,
		Final:      1,
	}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}

	if len(res.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Source != "b.bib" || w.Key != "truncated" || w.Line != 9 {
		t.Errorf("Warning = %+v, want b.bib/truncated at line 9", w)
	}
	if w.Message != "Incomplete BibTeX entry detected in b.bib (entry may be truncated)." {
		t.Errorf("Warning.Message = %q", w.Message)
	}

	if len(res.Publications) != 1 {
		t.Fatalf("len(Publications) = %d, want 1", len(res.Publications))
	}
	p := res.Publications[0]
	if p.DOI != "10.1/abc" {
		t.Errorf("DOI = %q, want 10.1/abc", p.DOI)
	}
	if p.Authors != "Pal, Chris and Doe, Jane" {
		t.Errorf("Authors = %q, want the longer author list", p.Authors)
	}
	if want := []string{"a.bib", "b.bib"}; !reflect.DeepEqual(p.SourceFiles, want) {
		t.Errorf("SourceFiles = %q, want %q", p.SourceFiles, want)
	}
	if want := []string{"pal2019", "Pal2019preprint"}; !reflect.DeepEqual(p.SourceKeys, want) {
		t.Errorf("SourceKeys = %q, want %q", p.SourceKeys, want)
	}
	if p.Venue != "Journal of Things" {
		t.Errorf("Venue = %q, want Journal of Things", p.Venue)
	}
	for _, pub := range res.Publications {
		if pub.Title == "This entry never ends" {
			t.Error("truncated entry should be excluded")
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	sources := []Source{
		{Label: "a.bib", Text: firstBib},
		{Label: "b.bib", Text: secondBib},
	}

	first := Run(sources)
	second := Run(sources)
	if !reflect.DeepEqual(first, second) {
		t.Error("Run() is not deterministic over the same input")
	}
}

func TestFindSources_NoInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "nothing here")

	_, err := FindSources(dir)
	if !errors.Is(err, ErrNoInputFiles) {
		t.Errorf("FindSources() error = %v, want ErrNoInputFiles", err)
	}
}

func TestFindSources_MissingDir(t *testing.T) {
	_, err := FindSources(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("FindSources() expected error for missing directory")
	}
	if errors.Is(err, ErrNoInputFiles) {
		t.Error("missing directory should not be reported as ErrNoInputFiles")
	}
}

func TestFindSources_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.bib", "a.bib", "b.bib"} {
		writeFile(t, dir, name, "")
	}

	paths, err := FindSources(dir)
	if err != nil {
		t.Fatalf("FindSources() error = %v", err)
	}
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	if want := []string{"a.bib", "b.bib", "c.bib"}; !reflect.DeepEqual(names, want) {
		t.Errorf("FindSources() = %q, want %q", names, want)
	}
}

func TestInspect(t *testing.T) {
	sources := []Source{
		{Label: "a.bib", Text: firstBib},
		{Label: "dup.bib", Text: `@article{same, title = {One}}
@article{Same, title = {Two}}
@article{notitle, year = {2020}}
`},
		{Label: "b.bib", Text: secondBib},
	}

	issues, stats := Inspect(sources)

	want := []Issue{
		{Type: IssueDuplicateKey, Source: "dup.bib", Line: 2, Key: "Same"},
		{Type: IssueUntitled, Source: "dup.bib", Line: 3, Key: "notitle"},
		{Type: IssueIncomplete, Source: "b.bib", Line: 9, Key: "truncated"},
	}
	if !reflect.DeepEqual(issues, want) {
		t.Errorf("Inspect() issues = %+v\nwant %+v", issues, want)
	}

	wantStats := Stats{Files: 3, Entries: 6, Incomplete: 1, Parsed: 4, Untitled: 1}
	if stats != wantStats {
		t.Errorf("Inspect() stats = %+v, want %+v", stats, wantStats)
	}
}
