package model

// IntentFlags are boolean modifiers consumed by downstream filters
type IntentFlags struct {
	Concert    bool `json:"is_concert"`
	Gaming     bool `json:"is_gaming"`
	Affordable bool `json:"is_affordable"`
}

// Intent is the structured reading of a free-text request.
// Zero values mean "unconstrained".
type Intent struct {
	Brand       *string     `json:"brand,omitempty"`
	MinRAM      int         `json:"min_ram"`
	Budget      int64       `json:"budget"`
	UseCaseTags []string    `json:"use_case_tags"`
	Flags       IntentFlags `json:"flags"`
}

// BrandName returns the brand or "" when no brand was detected
func (i Intent) BrandName() string {
	if i.Brand == nil {
		return ""
	}
	return *i.Brand
}
