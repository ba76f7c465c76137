// Package paging computes the visible window of a result list, either as
// fixed-size pages or as an incrementally growing prefix.
package paging

import "fmt"

// Mode selects the windowing policy.
type Mode string

// Windowing policies.
const (
	ModePaged       Mode = "paged"
	ModeIncremental Mode = "incremental"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePaged, ModeIncremental:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("paging: unknown mode %q", s)
	}
}

// Pages describes one page of a paged result and the controls to render
// around it.
type Pages struct {
	Current    int   `json:"current"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
	Total      int   `json:"total"`
	Start      int   `json:"-"`
	End        int   `json:"-"`
	Buttons    []int `json:"buttons"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// TotalPages returns ceil(total/size).
func TotalPages(total, size int) int {
	if size < 1 {
		size = 1
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate computes page bounds and controls. A page outside
// [1, TotalPages] is clamped into range. Up to maxVisible page buttons are
// produced, starting maxVisible/2 pages before the current one and clipped
// at both ends.
func Paginate(total, page, size, maxVisible int) Pages {
	if size < 1 {
		size = 1
	}
	if maxVisible < 1 {
		maxVisible = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := TotalPages(total, size)

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := min(start+size, total)
	if start > total {
		start = total
	}

	first := max(1, page-maxVisible/2)
	last := min(totalPages, first+maxVisible-1)
	buttons := make([]int, 0, maxVisible)
	for i := first; i <= last; i++ {
		buttons = append(buttons, i)
	}

	return Pages{
		Current:    page,
		Size:       size,
		TotalPages: totalPages,
		Total:      total,
		Start:      start,
		End:        end,
		Buttons:    buttons,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// Prev returns the previous page number, or 0 when there is none.
func (p Pages) Prev() int {
	if !p.HasPrev {
		return 0
	}
	return p.Current - 1
}

// Next returns the next page number, or 0 when there is none.
func (p Pages) Next() int {
	if !p.HasNext {
		return 0
	}
	return p.Current + 1
}

// Progress describes an incrementally revealed prefix of a result.
type Progress struct {
	Shown   int  `json:"shown"`
	Total   int  `json:"total"`
	Batch   int  `json:"batch"`
	HasMore bool `json:"has_more"`
}

// Incremental clamps shown into [0, total] and reports whether a further
// batch can be revealed.
func Incremental(total, shown, batch int) Progress {
	if batch < 1 {
		batch = 1
	}
	if total < 0 {
		total = 0
	}
	shown = max(0, min(shown, total))
	return Progress{Shown: shown, Total: total, Batch: batch, HasMore: shown < total}
}

// Initial returns the progress right after a new result is produced: the
// first batch is shown.
func Initial(total, batch int) Progress {
	if batch < 1 {
		batch = 1
	}
	return Incremental(total, batch, batch)
}

// Advance reveals one more batch.
func (p Progress) Advance() Progress {
	return Incremental(p.Total, p.Shown+p.Batch, p.Batch)
}

// Slice returns items[start:end] with bounds clamped to the slice.
func Slice[T any](items []T, start, end int) []T {
	start = max(0, min(start, len(items)))
	end = max(start, min(end, len(items)))
	return items[start:end]
}

// Page returns the records of p.
func Page[T any](items []T, p Pages) []T {
	return Slice(items, p.Start, p.End)
}

// Prefix returns the revealed records of p.
func Prefix[T any](items []T, p Progress) []T {
	return Slice(items, 0, p.Shown)
}
