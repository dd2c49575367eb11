package domain

// LikeOutcome is the result of toggling a caller's like on a post.
type LikeOutcome struct {
	PostID    string
	SubjectID string
	Liked     bool
	LikeCount int
}

// NormalizeLikes drops empty and repeated ids, keeping the first occurrence.
func NormalizeLikes(likes []string) []string {
	seen := make(map[string]struct{}, len(likes))
	out := make([]string, 0, len(likes))
	for _, id := range likes {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
