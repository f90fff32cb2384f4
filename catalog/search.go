package catalog

import (
	"sort"

	"github.com/ankoh/sqlynx-sub000/name"
)

// NameMatch is one fuzzy-matched name from SearchNames, merged across every
// entry that declares it and annotated with the tables it resolves to.
type NameMatch struct {
	Text   string
	Tags   name.Tag
	Tables []TableID
}

// SearchNames runs prefix against every loaded entry's name index, in
// (rank, entry id) order, merging matches that share the same folded text.
// This is the catalog's one fuzzy-search entry point; completion ranks its
// own candidates from these matches rather than building a second index.
func (c *Catalog) SearchNames(prefix string) []NameMatch {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank < entries[j].Rank
		}
		return uuidLess(entries[i].ID, entries[j].ID)
	})

	byText := make(map[string]*NameMatch)
	order := make([]string, 0)
	for _, e := range entries {
		if e.NameIndex == nil {
			continue
		}
		for _, ne := range e.NameIndex.SuffixMatch(prefix) {
			m, ok := byText[ne.Text]
			if !ok {
				m = &NameMatch{Text: ne.Text, Tags: ne.Tags}
				byText[ne.Text] = m
				order = append(order, ne.Text)
			} else {
				m.Tags |= ne.Tags
			}
			for _, r := range ne.Resolved {
				if tid, ok := r.(TableID); ok {
					m.Tables = append(m.Tables, tid)
				}
			}
		}
	}

	out := make([]NameMatch, 0, len(order))
	for _, text := range order {
		out = append(out, *byText[text])
	}
	return out
}
