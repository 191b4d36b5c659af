package registry

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// FuzzyMatch reports whether the characters of query appear in order in
// target, ignoring case. An empty query matches everything.
func FuzzyMatch(target, query string) bool {
	if query == "" {
		return true
	}
	return len(fuzzy.Find(query, []string{target})) > 0
}

// searchFields flattens the searchable text of every solution. owner maps
// each field back to its solution.
type searchFields struct {
	text  []string
	owner []int
}

func (f searchFields) String(i int) string { return f.text[i] }
func (f searchFields) Len() int            { return len(f.text) }

func newSearchFields(recs []SolutionRecord) searchFields {
	var f searchFields
	add := func(owner int, s string) {
		if s != "" {
			f.text = append(f.text, s)
			f.owner = append(f.owner, owner)
		}
	}
	for i := range recs {
		add(i, recs[i].Name)
		add(i, recs[i].Instance.String)
		add(i, recs[i].Description.String)
		for _, tg := range recs[i].Tags {
			add(i, tg)
		}
	}
	return f
}

// FuzzySearchSolutions fuzzy-matches query against name, instance,
// description and tags of every stored solution. Results are ordered by
// their best match score; ties keep the ListSolutions order.
func (r *Repository) FuzzySearchSolutions(query string) ([]SolutionRecord, error) {
	all, err := r.ListSolutions()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	fields := newSearchFields(all)
	best := make(map[int]int)
	for _, m := range fuzzy.FindFrom(query, fields) {
		owner := fields.owner[m.Index]
		if s, ok := best[owner]; !ok || m.Score > s {
			best[owner] = m.Score
		}
	}
	idx := make([]int, 0, len(best))
	for i := range best {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool {
		if best[idx[a]] != best[idx[b]] {
			return best[idx[a]] > best[idx[b]]
		}
		return idx[a] < idx[b]
	})
	out := make([]SolutionRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, all[i])
	}
	return out, nil
}
