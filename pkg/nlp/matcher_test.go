package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMappings() map[string]TopicMapping {
	return map[string]TopicMapping{
		"exam_dates": {
			Topic:    "exam_dates",
			Keywords: []string{"exam", "semester", "date", "schedule"},
			Synonyms: []string{"examination", "timetable"},
			Subject:  "exams",
			Answer:   "Semester exams run in the last two weeks of the term.",
		},
		"normalization": {
			Topic:    "normalization",
			Keywords: []string{"normalization", "dbms", "normal", "form"},
			Synonyms: []string{"normalisation"},
			Subject:  "dbms",
			Answer:   "Normalization reduces redundancy in a relational database.",
		},
	}
}

func TestMatchQuestionExactKeywords(t *testing.T) {
	m := NewMatcher(testMappings())

	result, err := m.MatchQuestion("When is the semester exam schedule out?")
	require.NoError(t, err)

	assert.Equal(t, "answer", result.Intent)
	assert.Equal(t, "exam_dates", result.Topic)
	assert.Equal(t, "Semester exams run in the last two weeks of the term.", result.Answer)
	assert.Greater(t, result.Confidence, 0.3)
	assert.NotEmpty(t, result.Matches)
}

func TestMatchQuestionUnknown(t *testing.T) {
	m := NewMatcher(testMappings())

	result, err := m.MatchQuestion("how do I bake sourdough bread")
	require.NoError(t, err)

	assert.Equal(t, "unknown", result.Intent)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestMatchQuestionEmptyMappings(t *testing.T) {
	m := NewMatcher(nil)

	result, err := m.MatchQuestion("anything at all")
	require.NoError(t, err)
	assert.Equal(t, "unknown", result.Intent)
}

func TestMatchQuestionSynonym(t *testing.T) {
	m := NewMatcher(testMappings())

	result, err := m.MatchQuestion("normalisation in dbms")
	require.NoError(t, err)

	assert.Equal(t, "answer", result.Intent)
	assert.Equal(t, "normalization", result.Topic)
}

func TestMatchQuestionStripsDiacritics(t *testing.T) {
	m := NewMatcher(testMappings())

	result, err := m.MatchQuestion("éxam schédule?")
	require.NoError(t, err)

	assert.Equal(t, "answer", result.Intent)
	assert.Equal(t, "exam_dates", result.Topic)
}

func TestSetTopicMappingsSwapsAtomically(t *testing.T) {
	m := NewMatcher(testMappings())

	m.SetTopicMappings(map[string]TopicMapping{
		"library": {
			Topic:    "library",
			Keywords: []string{"library", "hours"},
			Answer:   "The library is open 8am to 10pm.",
		},
	})

	_, exists := m.GetTopicMapping("exam_dates")
	assert.False(t, exists)

	result, err := m.MatchQuestion("library hours")
	require.NoError(t, err)
	assert.Equal(t, "library", result.Topic)
}

func TestDetectSubject(t *testing.T) {
	m := NewMatcher(nil)

	assert.Equal(t, "dbms", m.DetectSubject([]string{"explain", "dbms", "joins"}))
	assert.Equal(t, "", m.DetectSubject([]string{"sourdough", "bread"}))
}
