package service

import (
	"fmt"
	"regexp"
	"strings"

	"gadgetbot/internal/model"
	"gadgetbot/internal/utils"
)

// DefaultMaxPromptFacts bounds how many facts reach the generator
const DefaultMaxPromptFacts = 5

// variantTokens distinguish models within one line
var variantTokens = map[string]bool{
	"pro":   true,
	"max":   true,
	"ultra": true,
	"plus":  true,
	"se":    true,
}

var (
	// generationToken matches markers like 15, s24, x6, 13c
	generationToken = regexp.MustCompile(`^[a-z]?\d{1,3}[a-z]?$`)
	tokenSplitter   = regexp.MustCompile(`[^a-z0-9]+`)
)

const systemPreamble = `Kamu adalah GadgetBot, asisten penjualan HP yang cerdas.
Jawab pertanyaan user HANYA berdasarkan data fakta di bawah ini.
Jangan mengarang spesifikasi, harga, atau stok. Gunakan hanya data yang tersedia.
`

const systemInstructions = `
Instruksi:
- Jawab dengan ramah dan membantu, dalam Bahasa Indonesia.
- Jika ada produk yang cocok, rekomendasikan dan jelaskan alasannya dari spesifikasinya.
- Jika data kosong, minta maaf dan tawarkan pencarian lain.
- Tulis harga dalam format Rupiah.
`

// PromptAssembler picks the facts worth showing the generator and renders
// them into a system instruction. It does no I/O.
type PromptAssembler struct {
	maxCount int
}

// NewPromptAssembler creates an assembler with a default selection size
func NewPromptAssembler(maxCount int) *PromptAssembler {
	if maxCount <= 0 {
		maxCount = DefaultMaxPromptFacts
	}
	return &PromptAssembler{maxCount: maxCount}
}

// MaxCount returns the configured selection size
func (p *PromptAssembler) MaxCount() int {
	return p.maxCount
}

// ModelKeywords extracts model-distinguishing tokens from an utterance.
// Budget phrases are removed first so "5 juta" is not read as a model number.
func ModelKeywords(utterance string) []string {
	text := budgetPattern.ReplaceAllString(strings.ToLower(utterance), " ")

	seen := make(map[string]bool)
	var keywords []string
	for _, tok := range tokenSplitter.Split(text, -1) {
		if tok == "" || seen[tok] {
			continue
		}
		if variantTokens[tok] || generationToken.MatchString(tok) {
			seen[tok] = true
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

// Select returns at most maxCount facts, facts naming an utterance keyword
// first. Both groups keep their incoming order. A non-positive maxCount
// uses the assembler default.
func (p *PromptAssembler) Select(facts []model.Fact, utterance string, maxCount int) []model.Fact {
	if maxCount <= 0 {
		maxCount = p.maxCount
	}

	keywords := ModelKeywords(utterance)
	ordered := facts
	if len(keywords) > 0 {
		matching := make([]model.Fact, 0, len(facts))
		rest := make([]model.Fact, 0, len(facts))
		for _, f := range facts {
			if utils.ContainsAny(strings.ToLower(f.Model), keywords...) {
				matching = append(matching, f)
			} else {
				rest = append(rest, f)
			}
		}
		ordered = append(matching, rest...)
	}

	if len(ordered) > maxCount {
		ordered = ordered[:maxCount]
	}
	out := make([]model.Fact, len(ordered))
	copy(out, ordered)
	return out
}

// Render builds the system instruction for the generator
func (p *PromptAssembler) Render(facts []model.Fact, useCaseTags []string) string {
	var b strings.Builder
	b.WriteString(systemPreamble)

	b.WriteString("\nKEBUTUHAN USER: ")
	if len(useCaseTags) == 0 {
		b.WriteString("tidak disebutkan")
	} else {
		b.WriteString(strings.Join(useCaseTags, ", "))
	}
	b.WriteString("\n")

	b.WriteString("\nDATA FAKTA (Knowledge Graph & Database Toko):\n")
	if len(facts) == 0 {
		b.WriteString("Tidak ditemukan produk yang cocok dengan kriteria dalam database kami.\n")
	}
	for i, f := range facts {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, f.Model, utils.FormatRupiah(f.Price))
		fmt.Fprintf(&b, "   - Spek: RAM %dGB, Storage %dGB, Processor %s\n", f.Specs.RAM, f.Specs.Storage, f.Specs.Processor)
		fmt.Fprintf(&b, "   - Toko: %s (Kondisi: %s, Stok: %d)\n", f.Store, f.Condition, f.Stock)
		if len(f.Tags) > 0 {
			fmt.Fprintf(&b, "   - Label: %s\n", strings.Join(f.Tags, ", "))
		}
	}

	b.WriteString(systemInstructions)
	return b.String()
}
