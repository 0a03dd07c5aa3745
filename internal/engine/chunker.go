package engine

import (
	"strings"
	"unicode"
)

// Chunk is a contiguous, size-bounded slice of one Document's content.
type Chunk struct {
	Content     string `json:"content"`
	SourceIndex int    `json:"source_index"` // index of the Document in the Split input
	Index       int    `json:"index"`        // position within its Document
}

// EffectiveOverlap clamps overlap into [0, chunkSize-1] so splitting always advances.
func EffectiveOverlap(chunkSize, overlap int) int {
	if overlap < 0 {
		return 0
	}
	if overlap >= chunkSize {
		return chunkSize - 1
	}
	return overlap
}

// Split cuts each document into chunks of at most chunkSize runes. Adjacent chunks
// of one document share exactly EffectiveOverlap(chunkSize, overlap) runes; the last
// chunk holds the remainder. Cuts prefer a paragraph, sentence or word boundary
// found in the last quarter of the window. Empty documents produce no chunks.
func Split(docs []Document, chunkSize, overlap int) []Chunk {
	if chunkSize <= 0 {
		return nil
	}
	overlap = EffectiveOverlap(chunkSize, overlap)

	var chunks []Chunk
	for di, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		for i, c := range splitText([]rune(doc.Content), chunkSize, overlap) {
			chunks = append(chunks, Chunk{Content: c, SourceIndex: di, Index: i})
		}
	}
	return chunks
}

// splitText requires 0 <= overlap < size.
func splitText(text []rune, size, overlap int) []string {
	var out []string
	start := 0
	for {
		if len(text)-start <= size {
			out = append(out, string(text[start:]))
			return out
		}
		end := cutPoint(text, start, size, overlap)
		out = append(out, string(text[start:end]))
		start = end - overlap
	}
}

// cutPoint picks the end (exclusive) of the chunk starting at start. The result is
// always in (start+overlap, start+size], so the next start moves forward.
func cutPoint(text []rune, start, size, overlap int) int {
	limit := start + size
	lookback := max(size/4, 1)
	floor := max(limit-lookback, start+overlap+1)
	if floor > limit {
		return limit
	}

	// paragraph: cut after a blank line
	for i := limit; i >= floor; i-- {
		if i >= 2 && text[i-1] == '\n' && text[i-2] == '\n' {
			return i
		}
	}
	// sentence: cut after terminal punctuation followed by whitespace.
	// limit < len(text) here, so text[i] is in range.
	for i := limit; i >= floor; i-- {
		r := text[i-1]
		if r == '。' || (isSentenceEnd(r) && unicode.IsSpace(text[i])) {
			return i
		}
	}
	// word: cut after whitespace
	for i := limit; i >= floor; i-- {
		if unicode.IsSpace(text[i-1]) {
			return i
		}
	}
	return limit
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
