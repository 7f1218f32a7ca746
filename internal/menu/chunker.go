package menu

import "strings"

// DefaultChunkLength keeps a single extraction prompt well inside the model context.
const DefaultChunkLength = 2000

// ChunkText splits s into ordered, non-overlapping pieces of at most max
// characters (runes). A piece ends at the last newline before the limit when
// there is one past the piece start, otherwise it is cut hard at the limit.
// Joining the pieces gives back s.
func ChunkText(s string, max int) []string {
	if s == "" {
		return nil
	}
	if max <= 0 {
		return []string{s}
	}

	var chunks []string
	for s != "" {
		end := runeOffset(s, max)
		if end == len(s) {
			chunks = append(chunks, s)
			break
		}
		if nl := strings.LastIndexByte(s[:end], '\n'); nl > 0 {
			end = nl
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}

// runeOffset is the byte index just past the first n runes of s.
func runeOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}
