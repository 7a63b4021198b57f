package service

import (
	"math"
	"regexp"
	"strconv"

	"gadgetbot/internal/model"
	"gadgetbot/internal/utils"
)

// Intent thresholds
const (
	// AffordabilityThreshold is the budget implied by "murah"/"budget" without a number
	AffordabilityThreshold int64 = 7_000_000
	// CommuterBudget is the budget implied by ride-hailing use
	CommuterBudget int64 = 3_000_000
	GamingMinRAM         = 8
	DailyMinRAM          = 4
)

// Use case tags
const (
	TagDaily      = "📱 Daily Use"
	TagGaming     = "🎮 Gaming"
	TagCommuter   = "🛵 Ojol / Commuting"
	TagConcert    = "🎤 Concert"
	TagPhoto      = "📸 Photography"
	TagAffordable = "💰 Budget"
)

var budgetPattern = regexp.MustCompile(`(\d+)\s*(?:juta|jt)`)

// IntentRule is one (predicate, effect) pair. Rules run in table order
// against the lowercased utterance, so a later rule overwrites what an
// earlier one wrote to the same field.
type IntentRule struct {
	Name  string
	When  func(text string) bool
	Apply func(text string, intent *model.Intent)
}

func anyOf(triggers ...string) func(string) bool {
	return func(text string) bool {
		return utils.ContainsAny(text, triggers...)
	}
}

func brandRule(brand string, triggers ...string) IntentRule {
	return IntentRule{
		Name: "brand:" + brand,
		When: anyOf(triggers...),
		Apply: func(_ string, intent *model.Intent) {
			b := brand
			intent.Brand = &b
		},
	}
}

// useCase describes what a use-case rule writes
type useCase struct {
	tag           string
	minRAM        int
	defaultBudget int64
	flag          func(flags *model.IntentFlags)
}

func useCaseRule(name string, uc useCase, triggers ...string) IntentRule {
	return IntentRule{
		Name: "use_case:" + name,
		When: anyOf(triggers...),
		Apply: func(_ string, intent *model.Intent) {
			intent.UseCaseTags = append(intent.UseCaseTags, uc.tag)
			if uc.minRAM > 0 {
				intent.MinRAM = uc.minRAM
			}
			if uc.defaultBudget > 0 && intent.Budget == 0 {
				intent.Budget = uc.defaultBudget
			}
			if uc.flag != nil {
				uc.flag(&intent.Flags)
			}
		},
	}
}

// numericBudgetRule turns "<N> juta" into N million and overrides any implied budget
var numericBudgetRule = IntentRule{
	Name: "budget:numeric",
	When: budgetPattern.MatchString,
	Apply: func(text string, intent *model.Intent) {
		m := budgetPattern.FindStringSubmatch(text)
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n > math.MaxInt64/1_000_000 {
			return
		}
		intent.Budget = n * 1_000_000
	},
}

// DefaultIntentRules is the rule table in evaluation order.
// Brand rules come first and the last matching brand wins.
func DefaultIntentRules() []IntentRule {
	return []IntentRule{
		brandRule("Samsung", "samsung", "galaxy"),
		brandRule("Apple", "apple", "iphone"),
		brandRule("Xiaomi", "xiaomi", "redmi"),
		brandRule("Poco", "poco"),
		brandRule("Oppo", "oppo"),
		brandRule("Vivo", "vivo"),
		brandRule("Realme", "realme"),
		brandRule("Asus", "asus", "rog phone"),
		brandRule("Infinix", "infinix"),
		brandRule("Tecno", "tecno"),
		brandRule("Google", "pixel", "google"),

		useCaseRule("daily", useCase{tag: TagDaily, minRAM: DailyMinRAM},
			"standar", "harian", "daily"),
		useCaseRule("gaming", useCase{
			tag:    TagGaming,
			minRAM: GamingMinRAM,
			flag:   func(f *model.IntentFlags) { f.Gaming = true },
		}, "gaming", "game", "berat"),
		useCaseRule("commuter", useCase{tag: TagCommuter, defaultBudget: CommuterBudget},
			"ojol", "ojek", "gojek", "grab", "maxim"),
		useCaseRule("concert", useCase{
			tag:  TagConcert,
			flag: func(f *model.IntentFlags) { f.Concert = true },
		}, "konser", "concert", "zoom"),
		useCaseRule("photo", useCase{tag: TagPhoto},
			"kamera", "foto", "camera"),
		useCaseRule("affordable", useCase{
			tag:           TagAffordable,
			defaultBudget: AffordabilityThreshold,
			flag:          func(f *model.IntentFlags) { f.Affordable = true },
		}, "murah", "budget", "hemat", "terjangkau"),

		numericBudgetRule,
	}
}
