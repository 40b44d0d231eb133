package jira

// EditLabels computes the new label list for an issue: every add label not
// already present is appended, then every remove label still present in the
// (possibly just-extended) list is deleted. Untouched entries keep their
// original order, and removal beats addition for a label named in both lists.
// added and removed report the labels that actually changed; both empty means
// the issue needs no update.
func EditLabels(labels, add, remove []string) (result, added, removed []string) {
	result = make([]string, len(labels))
	copy(result, labels)

	have := make(map[string]bool, len(labels))
	for _, l := range labels {
		have[l] = true
	}

	for _, l := range add {
		if !have[l] {
			result = append(result, l)
			have[l] = true
			added = append(added, l)
		}
	}

	for _, l := range remove {
		if !have[l] {
			continue
		}
		kept := result[:0]
		for _, r := range result {
			if r != l {
				kept = append(kept, r)
			}
		}
		result = kept
		delete(have, l)
		removed = append(removed, l)
	}

	return result, added, removed
}
