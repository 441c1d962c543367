package ingest

// matchUploads correlates declared tracks with uploaded audio files using
// the two-phase heuristic: an exact original-filename match claims the
// upload first; a track still without a file then takes the element at its
// own declared position from the remaining uploads, kept in original order.
// The result maps each track index to an index into uploads, or -1.
//
// The heuristic is deliberately best effort. Duplicate or omitted fileName
// declarations stay ambiguous and resolve exactly as described above, so a
// client that relies on the old behavior keeps getting it.
func matchUploads(metas []trackMeta, uploads []Upload) []int {
	assigned := make([]int, len(metas))
	for i := range assigned {
		assigned[i] = -1
	}
	claimed := make([]bool, len(uploads))

	for i, m := range metas {
		if m.FileName == "" {
			continue
		}
		for j, u := range uploads {
			if !claimed[j] && u.Filename == m.FileName {
				assigned[i] = j
				claimed[j] = true
				break
			}
		}
	}

	var remaining []int
	for j := range uploads {
		if !claimed[j] {
			remaining = append(remaining, j)
		}
	}
	for i := range metas {
		if assigned[i] == -1 && i < len(remaining) {
			assigned[i] = remaining[i]
		}
	}
	return assigned
}
