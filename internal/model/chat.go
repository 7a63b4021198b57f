package model

// ChatRequest represents a chat message from the client
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse represents the generated answer plus the facts it was grounded on
type ChatResponse struct {
	Response   string  `json:"response"`
	DebugFacts []Fact  `json:"debug_facts"`
	Intent     *Intent `json:"intent,omitempty"`
	Took       int64   `json:"took_ms"`
}

// HealthResponse reports service and knowledge graph status
type HealthResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	KnowledgeGraph string `json:"knowledge_graph"`
	Triples        int    `json:"triples"`
	Devices        int    `json:"devices"`
	Version        string `json:"version"`
}
