package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/supportdir/internal/models"
)

func TestExtractTag_PrefixAndBlank(t *testing.T) {
	got := ExtractTag("Who:", []string{"Who: Parent", "Cir: Sudden", "Who:   "})
	if diff := cmp.Diff([]string{"Parent"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractTag_DedupAndSort(t *testing.T) {
	got := ExtractTag("Location:", []string{
		"Location: York",
		"Location:Leeds",
		"Location:  York  ",
		"Type: Group",
	})
	if diff := cmp.Diff([]string{"Leeds", "York"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractTag_PrefixMustLead(t *testing.T) {
	got := ExtractTag("Age:", []string{"Child Age: 5", "age: lower"})
	if len(got) != 0 {
		t.Errorf("expected no tags, got %v", got)
	}
}

func TestExtractTag_EmptyPrefix(t *testing.T) {
	if got := ExtractTag("", []string{"anything"}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestPrefix_EveryDimension(t *testing.T) {
	for _, d := range models.Dimensions {
		if Prefix(d) == "" {
			t.Errorf("dimension %q has no CMS prefix", d)
		}
	}
}
