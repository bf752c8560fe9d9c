package ident

import "testing"

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1/ABC", "10.1/abc"},
		{"https://doi.org/10.1/ABC", "10.1/abc"},
		{"http://dx.doi.org/10.1038/Nature123", "10.1038/nature123"},
		{"  DOI:10.5555/x ", "10.5555/x"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeDOI(tt.input); got != tt.want {
				t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractArXivID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"abs link", "https://arxiv.org/abs/2101.01234", "2101.01234"},
		{"abs link with version", "http://arXiv.org/abs/1706.03762v5", "1706.03762v5"},
		{"pdf link", "https://arxiv.org/pdf/1512.03385", "1512.03385"},
		{"legacy id", "https://arxiv.org/abs/hep-th/9901001", "hep-th/9901001"},
		{"label form", "arXiv preprint arXiv:1810.04805", "1810.04805"},
		{"label with space", "ArXiv: 2003.12345v2", "2003.12345v2"},
		{"four digit suffix", "arXiv:0704.0001", "0704.0001"},
		{"no id", "Journal of Machine Learning Research", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractArXivID(tt.input); got != tt.want {
				t.Errorf("ExtractArXivID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestArXivLink(t *testing.T) {
	tests := []struct {
		name          string
		eprint        string
		archivePrefix string
		candidates    []string
		want          string
	}{
		{
			name:          "explicit eprint",
			eprint:        "2101.01234",
			archivePrefix: "arXiv",
			candidates:    []string{"https://arxiv.org/abs/9999.99999"},
			want:          "https://arxiv.org/abs/2101.01234",
		},
		{
			name:          "eprint with other archive falls back to candidates",
			eprint:        "12345",
			archivePrefix: "SSRN",
			candidates:    []string{"", "arXiv preprint arXiv:1810.04805"},
			want:          "https://arxiv.org/abs/1810.04805",
		},
		{
			name:       "url before venue",
			candidates: []string{"https://arxiv.org/abs/1111.11111", "arXiv:2222.22222"},
			want:       "https://arxiv.org/abs/1111.11111",
		},
		{
			name:       "nothing found",
			candidates: []string{"https://example.org", "NeurIPS"},
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ArXivLink(tt.eprint, tt.archivePrefix, tt.candidates...)
			if got != tt.want {
				t.Errorf("ArXivLink() = %q, want %q", got, tt.want)
			}
		})
	}
}
