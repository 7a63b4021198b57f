package model

// Fact tags
const (
	TagGamingCapable  = "gaming-capable"
	TagCameraFlagship = "camera-flagship"
	TagBudgetFriendly = "budget-friendly"
)

// Fact joins one device's specifications with one matching listing
type Fact struct {
	Model     string     `json:"model"`
	Specs     SpecRecord `json:"specs"`
	Price     float64    `json:"price"`
	Store     string     `json:"store"`
	Condition string     `json:"condition"`
	Stock     int        `json:"stock"`
	Tags      []string   `json:"tags"`
}

// HasTag reports whether the fact carries the given tag
func (f Fact) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
