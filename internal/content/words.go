package content

import "strings"

// DefaultWordsPerMinute is the reading speed used when none is configured.
const DefaultWordsPerMinute = 200

// WordCount counts the non-empty whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime converts a word count into whole minutes, rounding up.
// The result is never below one minute, including for empty bodies.
func ReadingTime(wordCount, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	if wordCount <= 0 {
		return 1
	}
	minutes := (wordCount + wordsPerMinute - 1) / wordsPerMinute
	return max(1, minutes)
}
