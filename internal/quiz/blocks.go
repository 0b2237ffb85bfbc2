package quiz

import "strings"

// SplitBlocks splits raw model output on Delimiter and returns the trimmed,
// non-empty segments in order. Blocks are not parsed further.
func SplitBlocks(raw string) []string {
	var blocks []string
	for _, seg := range strings.Split(raw, Delimiter) {
		if seg = strings.TrimSpace(seg); seg != "" {
			blocks = append(blocks, seg)
		}
	}
	return blocks
}
