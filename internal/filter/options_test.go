package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/supportdir/internal/models"
)

func TestBuildOptions_DistinctSorted(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.Location: {"York", "Leeds"}}),
		rec(1, map[models.Dimension][]string{models.Location: {"Bath", "York "}, models.Age: {"Adult"}}),
		rec(2, nil),
	}
	opts := BuildOptions(data)

	if diff := cmp.Diff([]string{"Bath", "Leeds", "York"}, opts[models.Location]); diff != "" {
		t.Errorf("location mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Adult"}, opts[models.Age]); diff != "" {
		t.Errorf("age mismatch (-want +got):\n%s", diff)
	}
	for _, d := range models.Dimensions {
		if opts[d] == nil {
			t.Errorf("dimension %q missing from options", d)
		}
	}
	if opts.Count() != 4 {
		t.Errorf("Count = %d, want 4", opts.Count())
	}
}

func TestBuildOptions_IgnoresSelection(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.Location: {"x"}}),
		rec(1, map[models.Dimension][]string{models.Location: {"y"}}),
	}
	full := BuildOptions(data)
	narrowed := BuildOptions(Match(data, Selection{models.Location: {"x"}}))
	if len(full[models.Location]) != 2 || len(narrowed[models.Location]) != 1 {
		t.Errorf("unexpected option counts: full=%v narrowed=%v", full, narrowed)
	}
}

func TestBuildOptions_FoldsCaseKeepsFirstSpelling(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.Location: {"Leeds"}}),
		rec(1, map[models.Dimension][]string{models.Location: {"leeds", "York"}}),
	}
	opts := BuildOptions(data)
	if diff := cmp.Diff([]string{"Leeds", "York"}, opts[models.Location]); diff != "" {
		t.Errorf("location mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOptions_AllTagOfferedSentinelDropped(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.Age: {"All", "--"}}),
		rec(1, map[models.Dimension][]string{models.Age: {"Child"}}),
	}
	opts := BuildOptions(data)
	if diff := cmp.Diff([]string{"All", "Child"}, opts[models.Age]); diff != "" {
		t.Errorf("age mismatch (-want +got):\n%s", diff)
	}
	if got := Match(data, Selection{models.Age: {"All"}}); len(got) != 1 || got[0].ID != 0 {
		t.Errorf("selecting the All tag matched %d records", len(got))
	}
}
