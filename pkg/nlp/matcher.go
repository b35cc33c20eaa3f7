package nlp

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const confidenceThreshold = 0.2

type matcher struct {
	mu            sync.RWMutex
	topicMappings map[string]TopicMapping
	stopWords     map[string]bool
}

func NewMatcher(mappings map[string]TopicMapping) IMatcher {
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "is": true, "are": true,
		"was": true, "were": true, "be": true, "to": true, "of": true,
		"in": true, "on": true, "at": true, "for": true, "and": true,
		"or": true, "do": true, "does": true, "did": true, "can": true,
		"could": true, "will": true, "would": true, "what": true,
		"when": true, "where": true, "who": true, "how": true,
		"why": true, "which": true, "me": true, "my": true, "our": true,
		"please": true, "tell": true, "about": true, "i": true,
		"want": true, "know": true, "this": true, "that": true,
	}

	if mappings == nil {
		mappings = map[string]TopicMapping{}
	}

	return &matcher{
		topicMappings: mappings,
		stopWords:     stopWords,
	}
}

func (m *matcher) MatchQuestion(text string) (*IntentResult, error) {
	startTime := time.Now()

	cleanText := m.cleanText(text)
	tokens := m.extractTokens(cleanText)
	matches := m.findBestMatches(tokens, cleanText)

	processingTime := time.Since(startTime)

	if len(matches) == 0 {
		return &IntentResult{
			Intent:         "unknown",
			Subject:        m.DetectSubject(tokens),
			Confidence:     0.0,
			ProcessingTime: processingTime.String(),
		}, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	bestMatch := matches[0]
	bestMatch.Subject = m.DetectSubject(tokens)
	bestMatch.ProcessingTime = processingTime.String()

	return bestMatch, nil
}

func (m *matcher) findBestMatches(tokens []string, fullText string) []*IntentResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []*IntentResult

	for topic, mapping := range m.topicMappings {
		confidence := m.calculateTopicConfidence(tokens, fullText, mapping)

		if confidence.Confidence > confidenceThreshold {
			result := &IntentResult{
				Intent:     "answer",
				Topic:      topic,
				Answer:     mapping.Answer,
				Confidence: confidence.Confidence,
				Matches:    confidence.Matches,
			}
			results = append(results, result)
		}
	}

	return results
}

func (m *matcher) calculateTopicConfidence(tokens []string, fullText string, mapping TopicMapping) *confidenceResult {
	var matches []MatchResult
	totalScore := 0.0
	maxPossibleScore := 0.0

	for _, keyword := range mapping.Keywords {
		for _, token := range tokens {
			if strings.EqualFold(token, keyword) {
				matches = append(matches, MatchResult{
					Keyword: keyword,
					Score:   1.0,
					Type:    "exact",
				})
				totalScore += 1.0
			}
		}
		maxPossibleScore += 1.0
	}

	for _, synonym := range mapping.Synonyms {
		similarity := m.calculateSimilarity(fullText, synonym)
		if similarity > 0.6 {
			matches = append(matches, MatchResult{
				Keyword: synonym,
				Score:   similarity,
				Type:    "synonym",
			})
			totalScore += similarity * 1.2
		}
	}

	for _, keyword := range mapping.Keywords {
		for _, token := range tokens {
			similarity := m.calculateSimilarity(token, keyword)
			if similarity > 0.5 && similarity < 1.0 {
				matches = append(matches, MatchResult{
					Keyword: keyword,
					Score:   similarity * 0.7,
					Type:    "fuzzy",
				})
				totalScore += similarity * 0.7
			}
		}
	}

	subjectBonus := m.getSubjectBonus(tokens, mapping.Subject)
	totalScore += subjectBonus

	confidence := totalScore / math.Max(maxPossibleScore, 1.0)
	if len(matches) > 1 {
		confidence *= 1.1
	}
	confidence = math.Min(confidence, 1.0)

	return &confidenceResult{
		Confidence: confidence,
		Matches:    matches,
	}
}

func (m *matcher) calculateSimilarity(text1, text2 string) float64 {
	norm1 := m.cleanText(text1)
	norm2 := m.cleanText(text2)

	if norm1 == norm2 {
		return 1.0
	}

	if strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1) {
		shorter := norm1
		longer := norm2
		if len(norm1) > len(norm2) {
			shorter = norm2
			longer = norm1
		}
		return float64(len(shorter)) / float64(len(longer))
	}

	distance := m.levenshteinDistance(norm1, norm2)
	maxLen := math.Max(float64(len(norm1)), float64(len(norm2)))

	if maxLen == 0 {
		return 0.0
	}

	return math.Max(0, 1.0-(float64(distance)/maxLen))
}

func (m *matcher) levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}

	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = minOf(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func minOf(a, b, c int) int {
	if a < b && a < c {
		return a
	} else if b < c {
		return b
	}
	return c
}

func (m *matcher) cleanText(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, result)

	words := strings.Fields(result)
	return strings.Join(words, " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func (m *matcher) extractTokens(text string) []string {
	words := strings.Fields(text)
	var tokens []string

	for _, word := range words {
		word = strings.TrimSpace(word)
		if len(word) > 1 && !m.stopWords[word] {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

func (m *matcher) GetTopicMapping(topic string) (TopicMapping, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, exists := m.topicMappings[topic]
	return mapping, exists
}

// SetTopicMappings swaps in the full mapping set, typically after the
// knowledge store changed.
func (m *matcher) SetTopicMappings(mappings map[string]TopicMapping) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.topicMappings = mappings
}

type confidenceResult struct {
	Confidence float64
	Matches    []MatchResult
}
