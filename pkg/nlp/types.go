package nlp

type IntentResult struct {
	Intent         string        `json:"intent"`
	Topic          string        `json:"topic"`
	Answer         string        `json:"answer"`
	Subject        string        `json:"subject,omitempty"`
	Confidence     float64       `json:"confidence"`
	Matches        []MatchResult `json:"matches"`
	ProcessingTime string        `json:"processing_time"`
}

type MatchResult struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
	Type    string  `json:"type"` // exact, synonym, fuzzy
}

type IMatcher interface {
	MatchQuestion(text string) (*IntentResult, error)
	SetTopicMappings(mappings map[string]TopicMapping)
	GetTopicMapping(topic string) (TopicMapping, bool)
	DetectSubject(tokens []string) string
}

// TopicMapping is one FAQ entry: the keyword/synonym surface that routes a
// free-text question to a stored answer.
type TopicMapping struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
	Synonyms []string `json:"synonyms"`
	Subject  string   `json:"subject"`
	Answer   string   `json:"answer"`
}
