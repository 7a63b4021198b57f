package utils

import (
	"strings"
)

// FlagshipMarkers are model-name fragments that mark flagship-tier devices
var FlagshipMarkers = []string{
	"ultra",
	"pro max",
	"pro+",
	"s24",
	"s23",
	"s22",
	"find x",
	"x100",
	"pixel 9 pro",
	"iphone 15 pro",
	"iphone 16 pro",
	"iphone 17 pro",
}

// ModelInTitle reports whether a listing title names the model.
// Both sides are lowercased; the match is plain containment.
func ModelInTitle(model, title string) bool {
	modelLower := strings.ToLower(strings.TrimSpace(model))
	if modelLower == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), modelLower)
}

// ContainsAny reports whether text contains any of the terms
func ContainsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// IsFlagship reports whether the model name carries a flagship marker
func IsFlagship(model string) bool {
	return ContainsAny(strings.ToLower(model), FlagshipMarkers...)
}
