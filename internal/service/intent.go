package service

import (
	"strings"

	"gadgetbot/internal/model"
)

// IntentExtractor reads brand, spec thresholds, budget and use cases out of
// an utterance with a fixed rule table. It never fails.
type IntentExtractor struct {
	rules []IntentRule
}

// NewIntentExtractor creates an extractor over the default rule table
func NewIntentExtractor() *IntentExtractor {
	return NewIntentExtractorWithRules(DefaultIntentRules())
}

// NewIntentExtractorWithRules creates an extractor over a custom rule table
func NewIntentExtractorWithRules(rules []IntentRule) *IntentExtractor {
	return &IntentExtractor{rules: rules}
}

// Extract evaluates every rule in order against the lowercased utterance
func (e *IntentExtractor) Extract(utterance string) model.Intent {
	text := strings.ToLower(utterance)
	intent := model.Intent{UseCaseTags: []string{}}

	for _, rule := range e.rules {
		if rule.When(text) {
			rule.Apply(text, &intent)
		}
	}
	return intent
}
