package model

// SpecRecord is one device read from the knowledge graph
type SpecRecord struct {
	ID        string `json:"id"`
	Model     string `json:"model"`
	Brand     string `json:"brand"`
	RAM       int    `json:"ram"`
	Processor string `json:"processor"`
	Storage   int    `json:"storage"`
}
