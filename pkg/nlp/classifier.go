package nlp

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

type Classifier struct {
	intents   IntentTable
	threshold float64
	log       *logrus.Logger
}

func NewClassifier(intents IntentTable, log *logrus.Logger) *Classifier {
	return &Classifier{
		intents:   intents,
		threshold: DefaultThreshold,
		log:       log,
	}
}

// Classify returns the best scoring intent name, or FallbackIntent.
func (c *Classifier) Classify(text string) string {
	return c.Match(text).Intent
}

// Match scores text against every phrase of every intent. Only a strictly
// higher score replaces the current best, so the first maximum wins.
func (c *Classifier) Match(text string) IntentResult {
	input := normalize(text)

	best := IntentResult{Intent: FallbackIntent}
	for _, intent := range c.intents {
		for _, phrase := range intent.Phrases {
			score := TokenSortRatio(input, phrase)
			if score > best.Score {
				best = IntentResult{Intent: intent.Name, Keyword: phrase, Score: score}
				if c.log != nil {
					c.log.WithFields(logrus.Fields{
						"intent":  intent.Name,
						"keyword": phrase,
						"score":   score,
					}).Debug("Intent candidate")
				}
			}
		}
	}

	if best.Score > c.threshold {
		return best
	}

	return IntentResult{Intent: FallbackIntent, Keyword: best.Keyword, Score: best.Score}
}

// TokenSortRatio compares two strings after sorting their whitespace
// separated tokens, so word order does not matter. The result is in [0,100].
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// Ratio is the normalised indel similarity of a and b in [0,100]: twice the
// longest common subsequence over the combined length.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(ra, rb)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func normalize(text string) string {
	return strings.ToLower(norm.NFC.String(text))
}
