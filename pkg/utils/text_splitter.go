package utils

// Chunk is one slice of a document plus the rune offsets it was cut from.
// The offsets travel with the chunk as metadata so retrieval hits can point
// back into the source file.
type Chunk struct {
	Text  string
	Index int
	Start int
	End   int
}

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters with an 'overlap' to preserve context at boundaries. The window
// advances chunkSize-overlap runes at a time; without overlap a sentence cut
// midstream would embed without its surroundings.
// This is a simple character-based splitter. Ideally, use a tokenizer-aware splitter.
func SplitText(text string, chunkSize int, overlap int) []Chunk {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen == 0 {
		return nil
	}
	if totalLen <= chunkSize {
		return []Chunk{{Text: text, Index: 0, Start: 0, End: totalLen}}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []Chunk
	index := 0
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, Chunk{
			Text:  string(runes[i:end]),
			Index: index,
			Start: i,
			End:   end,
		})
		index++

		if end == totalLen {
			break
		}
	}

	return chunks
}
