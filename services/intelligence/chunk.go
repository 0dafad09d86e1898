package intelligence

import "strings"

// chunkSeparators are tried in order when looking for a break point, from
// paragraph down to word boundaries.
var chunkSeparators = []string{"\n\n", "\n", ". ", " "}

// ChunkText splits text into chunks of at most size runes, breaking at the
// strongest boundary inside each window and carrying overlap runes between
// consecutive chunks so context is not lost at the seams.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(text)
	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			window := string(runes[start:end])
			for _, sep := range chunkSeparators {
				if idx := strings.LastIndex(window, sep); idx > 0 {
					end = start + len([]rune(window[:idx+len(sep)]))
					break
				}
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}
