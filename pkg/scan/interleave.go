package scan

import "github.com/ajito/popdict/pkg/entry"

// interleave merges per-language ranked lists round-robin by rank: one full
// pass over the lists takes each list's next entry before any list advances
// to the following rank. This keeps the top of the merged list diverse
// instead of exhausting one language first. Stops at max entries or when a
// full round adds nothing.
func interleave(lists [][]entry.DictionaryEntry, max int) []entry.DictionaryEntry {
	out := make([]entry.DictionaryEntry, 0, max)
	for rank := 0; ; rank++ {
		added := false
		for _, list := range lists {
			if rank >= len(list) {
				continue
			}
			out = append(out, list[rank])
			added = true
			if max > 0 && len(out) >= max {
				return out
			}
		}
		if !added {
			return out
		}
	}
}
