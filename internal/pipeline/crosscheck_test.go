package pipeline

import (
	"reflect"
	"testing"
)

func TestCrossCheck_LenientKeys(t *testing.T) {
	src := Source{Label: "b.bib", Text: firstBib + secondBib}

	report := CrossCheck(src)
	if report.Source != "b.bib" {
		t.Errorf("Source = %q, want b.bib", report.Source)
	}
	// @comment and the truncated entry carry no usable key
	if report.LenientKeys != 2 {
		t.Errorf("LenientKeys = %d, want 2", report.LenientKeys)
	}
}

func TestCrossCheckReport_OK(t *testing.T) {
	tests := []struct {
		name   string
		report CrossCheckReport
		want   bool
	}{
		{"agreement", CrossCheckReport{LenientKeys: 2, StrictKeys: 2}, true},
		{"strict error", CrossCheckReport{StrictError: "unexpected EOF"}, false},
		{"lenient only key", CrossCheckReport{OnlyLenient: []string{"a"}}, false},
		{"strict only key", CrossCheckReport{OnlyStrict: []string{"b"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDifference(t *testing.T) {
	a := map[string]bool{"x": true, "b": true, "a": true}
	b := map[string]bool{"x": true}

	if got, want := difference(a, b), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("difference() = %v, want %v", got, want)
	}
	if got := difference(b, a); got != nil {
		t.Errorf("difference() = %v, want nil", got)
	}
}

func TestCrossCheckAll_Order(t *testing.T) {
	sources := []Source{
		{Label: "a.bib", Text: firstBib},
		{Label: "b.bib", Text: secondBib},
	}
	reports := CrossCheckAll(sources)
	if len(reports) != 2 || reports[0].Source != "a.bib" || reports[1].Source != "b.bib" {
		t.Errorf("CrossCheckAll() = %+v, want reports for a.bib then b.bib", reports)
	}
}
