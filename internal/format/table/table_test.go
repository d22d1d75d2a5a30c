package table

import (
	"reflect"
	"testing"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"ubuntu.iso", "1.2 GB"},
		{"a", "3 MB"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"ubuntu.iso  1.2 GB",
		"a             3 MB",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderSkipsHiddenColumnsAndTruncates(t *testing.T) {
	rows := [][]string{{"a-very-long-name", "50%", "x"}}
	got := Render(rows, []int{6, 0, 1}, nil)
	if len(got) != 1 || got[0] != "a-ver…  x" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestWidthsIncludesHeader(t *testing.T) {
	got := Widths([]string{"Name", "ETA"}, [][]string{{"ab", "10m"}, {"abcdef", ""}})
	if !reflect.DeepEqual(got, []int{6, 3}) {
		t.Fatalf("unexpected widths %v", got)
	}
}

func TestFitShrinksFlexColumn(t *testing.T) {
	got := Fit([]int{30, 8, 0, 5}, 0, 30)
	// 8 + 5 + two separators = 17, leaving 13 for the name column.
	if !reflect.DeepEqual(got, []int{13, 8, 0, 5}) {
		t.Fatalf("unexpected fit %v", got)
	}
	if got := Fit([]int{4, 8}, 0, 100); got[0] != 4 {
		t.Fatalf("fit must not grow the flex column, got %v", got)
	}
}
