package service

import (
	"strings"
)

// SafeResponse is returned for off-topic or blocked requests
const SafeResponse = "Maaf, saya hanya bisa membantu seputar smartphone dan gadget. Ada yang ingin ditanyakan tentang HP? 📱"

var defaultBlockedTopics = []string{
	"politik", "agama", "sara", "hack", "crack",
	"bypass", "illegal", "xxx", "drugs", "narkoba",
	"judi", "gambling", "teroris", "bunuh",
}

// TopicGuard rejects utterances that name a blocked topic as a whole word
type TopicGuard struct {
	blocked map[string]bool
}

// NewTopicGuard creates a guard over the default blocked topics
func NewTopicGuard() *TopicGuard {
	return NewTopicGuardWith(defaultBlockedTopics)
}

// NewTopicGuardWith creates a guard over a custom topic list
func NewTopicGuardWith(topics []string) *TopicGuard {
	blocked := make(map[string]bool, len(topics))
	for _, t := range topics {
		blocked[strings.ToLower(t)] = true
	}
	return &TopicGuard{blocked: blocked}
}

// Blocked returns the first blocked topic in the utterance, if any
func (g *TopicGuard) Blocked(utterance string) (string, bool) {
	words := tokenSplitter.Split(strings.ToLower(utterance), -1)
	for _, w := range words {
		if g.blocked[w] {
			return w, true
		}
	}
	return "", false
}
