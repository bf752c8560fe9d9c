package export

import (
	"testing"

	"github.com/matsen/bibmerge/internal/reference"
	"github.com/matsen/bibmerge/internal/tags"
)

func samplePubs() []reference.Publication {
	return []reference.Publication{
		{Title: "beta paper", Year: "2019", DOI: "10.1/beta"},
		{Title: "Undated"},
		{Title: "Alpha Paper", Year: "c. 2019"},
		{Title: "Newest", Year: "2024", URL: "https://arxiv.org/abs/2401.00001"},
	}
}

func TestBuildRows_Order(t *testing.T) {
	rows := BuildRows(samplePubs(), nil)

	want := []string{"Newest", "Alpha Paper", "beta paper", "Undated"}
	if len(rows) != len(want) {
		t.Fatalf("BuildRows() returned %d rows, want %d", len(rows), len(want))
	}
	for i, title := range want {
		if rows[i].Title != title {
			t.Errorf("rows[%d].Title = %q, want %q", i, rows[i].Title, title)
		}
	}

	if !rows[1].HasYear || rows[1].SortYear != 2019 {
		t.Errorf("noisy year: HasYear=%v SortYear=%d, want true 2019", rows[1].HasYear, rows[1].SortYear)
	}
	if rows[3].HasYear {
		t.Error("undated row should have HasYear false")
	}
}

func TestBuildRows_Tags(t *testing.T) {
	idx := tags.NewIndex()
	idx.ByDOI["10.1/beta"] = []string{"ml"}
	idx.ByTitle["undated"] = []string{"misc"}

	rows := BuildRows(samplePubs(), idx)
	byTitle := make(map[string]Row)
	for _, r := range rows {
		byTitle[r.Title] = r
	}

	if got := byTitle["beta paper"].Tags; len(got) != 1 || got[0] != "ml" {
		t.Errorf("beta paper tags = %v, want [ml]", got)
	}
	if got := byTitle["Undated"].Tags; len(got) != 1 || got[0] != "misc" {
		t.Errorf("Undated tags = %v, want [misc]", got)
	}
	if got := byTitle["Newest"].Tags; got != nil {
		t.Errorf("Newest tags = %v, want none", got)
	}
}

func TestRow_ProjectPage(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"", ""},
		{"https://ARXIV.org/abs/1", ""},
		{"https://example.org/project", "https://example.org/project"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			r := Row{Publication: reference.Publication{URL: tt.url}}
			if got := r.ProjectPage(); got != tt.want {
				t.Errorf("ProjectPage() = %q, want %q", got, tt.want)
			}
		})
	}
}
