// Package readingtime estimates how long a body of text takes to read.
package readingtime

import (
	"fmt"
	"math"
	"time"
	"unicode"
)

// DefaultWordsPerMinute is the reading speed used when none is configured.
const DefaultWordsPerMinute = 200

// Result is a reading-time estimate.
type Result struct {
	Text    string        `json:"text"`
	Minutes float64       `json:"minutes"`
	Time    time.Duration `json:"time"`
	Words   int           `json:"words"`
}

// Estimate computes a reading-time estimate at DefaultWordsPerMinute.
func Estimate(text string) Result {
	return EstimateAt(text, DefaultWordsPerMinute)
}

// EstimateAt computes a reading-time estimate at the given speed.
//
// Text shows whole minutes, rounded up after rounding Minutes to two decimals,
// e.g. "5 min read".
func EstimateAt(text string, wordsPerMinute int) Result {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	words := CountWords(text)
	minutes := float64(words) / float64(wordsPerMinute)
	display := int(math.Ceil(math.Round(minutes*100) / 100))

	return Result{
		Text:    fmt.Sprintf("%d min read", display),
		Minutes: minutes,
		Time:    time.Duration(math.Round(minutes * float64(time.Minute))),
		Words:   words,
	}
}

// CountWords counts whitespace-separated words. Han, Hiragana, Katakana and Hangul
// characters are counted one word each.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case isCJK(r):
			count++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
