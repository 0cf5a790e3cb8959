package tracker

import (
	"sort"
	"strings"
)

// DoneTotal counts checked steps against the fixed step count across
// all variants. Total is variants × steps regardless of what the
// stored maps contain.
func DoneTotal(t *Topic) (done, total int) {
	for _, v := range Variants {
		for _, s := range Steps {
			total++
			if t.Variants[v.Key][s.Key] {
				done++
			}
		}
	}
	return done, total
}

// Fraction converts a done/total pair to a 0..1 ratio, 0 when total
// is zero.
func Fraction(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// Complete reports whether every step of the topic is checked.
func Complete(t *Topic) bool {
	done, total := DoneTotal(t)
	return done == total
}

// Filter modes for the list view.
const (
	FilterAll        = "all"
	FilterIncomplete = "incomplete"
	FilterComplete   = "complete"
)

// Sort modes for the list view.
const (
	SortManual   = "manual"
	SortLabel    = "label"
	SortProgress = "progress"
)

// Visible applies search, filter, and sort to the topic set and
// returns the ordered slice for rendering. Unknown filter or sort
// values fall back to the defaults.
func Visible(topics map[string]*Topic, query, filter, sortMode string) []*Topic {
	items := make([]*Topic, 0, len(topics))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, t := range topics {
		if q != "" && !strings.Contains(strings.ToLower(t.Label), q) {
			continue
		}
		switch filter {
		case FilterIncomplete:
			if Complete(t) {
				continue
			}
		case FilterComplete:
			if !Complete(t) {
				continue
			}
		}
		items = append(items, t)
	}

	// Manual order first so the progress sort breaks ties on rank.
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	switch sortMode {
	case SortLabel:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Label) < strings.ToLower(items[j].Label)
		})
	case SortProgress:
		sort.SliceStable(items, func(i, j int) bool {
			di, ti := DoneTotal(items[i])
			dj, tj := DoneTotal(items[j])
			return Fraction(di, ti) > Fraction(dj, tj)
		})
	}
	return items
}

// Overall sums progress over a rendered slice, for the page-level
// progress bar.
func Overall(items []*Topic) (done, total int) {
	for _, t := range items {
		d, n := DoneTotal(t)
		done += d
		total += n
	}
	return done, total
}
