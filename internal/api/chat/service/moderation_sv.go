package chatService

import "strings"

var bannedWords = []string{"kill", "attack", "bomb", "suicide"}

// moderationCheck returns the banned word a question tripped on, or "" when
// the question is safe.
func (s *chatService) moderationCheck(text string) string {
	lowered := strings.ToLower(text)
	for _, w := range bannedWords {
		if strings.Contains(lowered, w) {
			return w
		}
	}
	return ""
}
