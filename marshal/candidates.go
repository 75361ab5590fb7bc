package marshal

import "strings"

// CandidateDelimiter separates completion candidates inside one C string. It
// is not expected to occur in real candidate text.
const CandidateDelimiter = "_*#*_"

// JoinCandidates encodes candidates for a completion hook return value.
func JoinCandidates(candidates []string) string {
	return strings.Join(candidates, CandidateDelimiter)
}

// SplitCandidates decodes a completion hook return value, preserving order and
// dropping empty segments.
func SplitCandidates(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, CandidateDelimiter)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
