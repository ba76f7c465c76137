package filter

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/supportdir/internal/models"
)

func rec(id int, dims map[models.Dimension][]string) models.ServiceRecord {
	return models.ServiceRecord{ID: id, Title: string(rune('A' + id)), Dimensions: dims}
}

func ids(records []models.ServiceRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestMatch_LocationScenario(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.Location: {"x"}}),
		rec(1, map[models.Dimension][]string{models.Location: {"y"}}),
		rec(2, map[models.Dimension][]string{models.Location: {}}),
	}

	got := Match(data, Selection{models.Location: {"x"}})
	if diff := cmp.Diff([]int{0}, ids(got)); diff != "" {
		t.Errorf("location=x mismatch (-want +got):\n%s", diff)
	}

	got = Match(data, Selection{})
	if diff := cmp.Diff([]int{0, 1, 2}, ids(got)); diff != "" {
		t.Errorf("empty selection mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_OrWithinAndAcross(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.WhoDied: {"Parent"}, models.Location: {"Leeds"}}),
		rec(1, map[models.Dimension][]string{models.WhoDied: {"Child"}, models.Location: {"York"}}),
		rec(2, map[models.Dimension][]string{models.WhoDied: {"Partner"}, models.Location: {"Leeds", "York"}}),
		rec(3, map[models.Dimension][]string{models.WhoDied: {"Parent"}}),
	}
	sel := Selection{
		models.WhoDied:  {"Parent", "Partner"},
		models.Location: {"Leeds"},
	}
	if diff := cmp.Diff([]int{0, 2}, ids(Match(data, sel))); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_SentinelAndEmptyAreUnconstrained(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.Age: {"Adult"}}),
		rec(1, nil),
	}
	for name, sel := range map[string]Selection{
		"sentinel":       {models.Age: {AllSentinel}},
		"sentinel mixed": {models.Age: {"Adult", "--"}},
		"empty set":      {models.Age: {}},
		"blank value":    {models.Age: {"  "}},
	} {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff([]int{0, 1}, ids(Match(data, sel))); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatch_AllIsAnOrdinaryTag(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.Age: {"All"}}),
		rec(1, map[models.Dimension][]string{models.Age: {"Child"}}),
	}
	if diff := cmp.Diff([]int{0}, ids(Match(data, Selection{models.Age: {"all"}}))); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if IsAll("All") || !IsAll(" -- ") {
		t.Error("only the sentinel value means unconstrained")
	}
}

func TestSameTag(t *testing.T) {
	for _, tt := range []struct {
		a, b string
		want bool
	}{
		{"Leeds", "leeds", true},
		{" Leeds ", "LEEDS", true},
		{"Straße", "STRASSE", true},
		{"Leeds", "York", false},
	} {
		if got := SameTag(tt.a, tt.b); got != tt.want {
			t.Errorf("SameTag(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatch_CaseInsensitiveTrimmed(t *testing.T) {
	data := []models.ServiceRecord{
		rec(0, map[models.Dimension][]string{models.SupportType: {" Helpline "}}),
		rec(1, map[models.Dimension][]string{models.SupportType: {"Group"}}),
	}
	got := Match(data, Selection{models.SupportType: {"HELPLINE"}})
	if diff := cmp.Diff([]int{0}, ids(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_MissingDimensionFailsConstraint(t *testing.T) {
	data := []models.ServiceRecord{rec(0, nil)}
	if got := Match(data, Selection{models.Circumstances: {"Suicide"}}); len(got) != 0 {
		t.Errorf("record without dimension matched: %v", ids(got))
	}
}

func TestMatch_PreservesOrderAndDuplicates(t *testing.T) {
	r := rec(4, map[models.Dimension][]string{models.Location: {"x"}})
	data := []models.ServiceRecord{r, rec(1, nil), r}
	got := Match(data, Selection{models.Location: {"x"}})
	if diff := cmp.Diff([]int{4, 4}, ids(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_DoesNotAliasInput(t *testing.T) {
	data := []models.ServiceRecord{rec(0, nil), rec(1, nil)}
	got := Match(data, nil)
	got[0] = rec(9, nil)
	if data[0].ID != 0 {
		t.Error("Match result aliases the input slice")
	}
}

func TestSelection_Normalize(t *testing.T) {
	sel := Selection{
		models.WhoDied:           {" Parent ", ""},
		models.Location:          {"--"},
		models.Age:               nil,
		models.Dimension("nope"): {"x"},
	}
	want := Selection{models.WhoDied: {"Parent"}}
	if diff := cmp.Diff(want, sel.Normalize()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !sel.Constrained() || !sel.Has(models.WhoDied) || sel.Has(models.Location) {
		t.Errorf("constraint flags wrong for %v", sel)
	}
}

func TestSelection_Equal(t *testing.T) {
	a := Selection{models.WhoDied: {"Parent", "Child"}, models.Location: {"--"}}
	b := Selection{models.WhoDied: {"child", "parent"}}
	if !a.Equal(b) {
		t.Error("expected selections to be equal")
	}
	if a.Equal(Selection{models.WhoDied: {"Parent"}}) {
		t.Error("expected selections to differ")
	}
}

func TestFromValues_IgnoresNonDimensions(t *testing.T) {
	sel := FromValues(map[string][]string{
		"who_died": {"Parent"},
		"page":     {"3"},
		"location": {"--"},
	})
	want := Selection{models.WhoDied: {"Parent"}}
	if diff := cmp.Diff(want, sel); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

var tagPool = []string{"a", "b", "c", "d"}

func randomDataset(rng *rand.Rand, n int) []models.ServiceRecord {
	out := make([]models.ServiceRecord, n)
	for i := range out {
		dims := make(map[models.Dimension][]string)
		for _, d := range models.Dimensions {
			for _, tag := range tagPool {
				if rng.Intn(3) == 0 {
					dims[d] = append(dims[d], tag)
				}
			}
		}
		out[i] = rec(i, dims)
	}
	return out
}

func randomSelection(rng *rand.Rand) Selection {
	sel := make(Selection)
	for _, d := range models.Dimensions {
		if rng.Intn(2) == 0 {
			continue
		}
		for _, tag := range tagPool {
			if rng.Intn(3) == 0 {
				sel[d] = append(sel[d], tag)
			}
		}
	}
	return sel
}

// predicate restates AND-across / OR-within independently of Match.
func predicate(r models.ServiceRecord, sel Selection) bool {
	for d, want := range sel.Normalize() {
		found := false
		for _, w := range want {
			for _, tag := range r.Dimensions[d] {
				if tag == w {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestMatch_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		data := randomDataset(rng, rng.Intn(40))
		sel := randomSelection(rng)
		got := Match(data, sel)

		inResult := make(map[int]bool, len(got))
		for _, r := range got {
			inResult[r.ID] = true
		}
		for _, r := range data {
			if predicate(r, sel) != inResult[r.ID] {
				t.Fatalf("iter %d: record %d predicate=%v inResult=%v", iter, r.ID, predicate(r, sel), inResult[r.ID])
			}
		}

		// Subset, in dataset order.
		last := -1
		for _, r := range got {
			if r.ID <= last {
				t.Fatalf("iter %d: order not preserved: %v", iter, ids(got))
			}
			last = r.ID
		}

		if diff := cmp.Diff(ids(got), ids(Match(got, sel))); diff != "" {
			t.Fatalf("iter %d: re-filtering changed result (-first +second):\n%s", iter, diff)
		}

		if diff := cmp.Diff(ids(data), ids(Match(data, Selection{}))); diff != "" {
			t.Fatalf("iter %d: empty selection is not identity:\n%s", iter, diff)
		}
	}
}
