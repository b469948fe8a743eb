package nlp

// FallbackIntent is returned when no phrase scores above the threshold.
const FallbackIntent = "fallback"

// DefaultThreshold is the minimum score, exclusive, for an intent to win.
const DefaultThreshold = 70.0

// Intent is one named category with the keyword phrases that signal it.
type Intent struct {
	Name    string   `json:"name"`
	Phrases []string `json:"phrases"`
}

// IntentTable keeps intents in load order so ties resolve the same way on
// every run.
type IntentTable []Intent

// Names returns the intent names in table order.
func (t IntentTable) Names() []string {
	names := make([]string, 0, len(t))
	for _, intent := range t {
		names = append(names, intent.Name)
	}
	return names
}

// IntentResult describes the best match found for an input.
type IntentResult struct {
	Intent  string  `json:"intent"`
	Keyword string  `json:"keyword,omitempty"`
	Score   float64 `json:"score"`
}

type IClassifier interface {
	Classify(text string) string
	Match(text string) IntentResult
}
