package nlp

import "strings"

// Course subjects the bot recognizes. Used both for the confidence bonus and
// for tagging chat log entries.
var subjects = map[string][]string{
	"dbms":              {"dbms", "database", "databases", "sql", "normalization"},
	"data structures":   {"ds", "data", "structures", "tree", "graph", "linkedlist", "stack", "queue"},
	"operating systems": {"os", "operating", "process", "scheduling", "deadlock"},
	"networks":          {"network", "networks", "tcp", "routing", "protocol"},
}

func (m *matcher) DetectSubject(tokens []string) string {
	for subject, keywords := range subjects {
		for _, word := range tokens {
			for _, keyword := range keywords {
				if strings.EqualFold(word, keyword) {
					return subject
				}
			}
		}
	}
	return ""
}

func (m *matcher) getSubjectBonus(tokens []string, subject string) float64 {
	if subject == "" {
		return 0.0
	}

	keywords, exists := subjects[subject]
	if !exists {
		return 0.0
	}

	bonus := 0.0
	for _, token := range tokens {
		for _, keyword := range keywords {
			if strings.Contains(strings.ToLower(token), strings.ToLower(keyword)) {
				bonus += 0.1
			}
		}
	}

	if bonus > 0.3 {
		bonus = 0.3
	}

	return bonus
}
