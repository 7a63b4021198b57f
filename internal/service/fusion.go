package service

import (
	"sort"

	"gadgetbot/internal/model"
	"gadgetbot/internal/repository"
	"gadgetbot/internal/utils"
)

// Fusion thresholds
const (
	GamingCapableRAM        = 12
	BudgetFriendlyThreshold = 5_000_000.0
)

// FactFusion joins knowledge-graph candidates with market listings
type FactFusion struct{}

// NewFactFusion creates a fusion stage
func NewFactFusion() *FactFusion {
	return &FactFusion{}
}

// Fuse emits one fact per (candidate, listing) pair whose listing title
// contains the candidate model, filtered by budget and sorted by price.
func (f *FactFusion) Fuse(candidates map[string]model.SpecRecord, listings []model.ListingRecord, intent model.Intent) []model.Fact {
	facts := []model.Fact{}
	if len(candidates) == 0 {
		return facts
	}

	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		spec := candidates[id]
		for _, listing := range listings {
			if !utils.ModelInTitle(spec.Model, listing.ListingTitle) {
				continue
			}
			if !admitPrice(listing.Price, intent) {
				continue
			}
			facts = append(facts, model.Fact{
				Model:     spec.Model,
				Specs:     spec,
				Price:     listing.Price,
				Store:     listing.StoreName,
				Condition: listing.Condition,
				Stock:     listing.Stock,
				Tags:      deriveTags(spec, listing.Price),
			})
		}
	}

	// Sort by price ascending
	sort.SliceStable(facts, func(i, j int) bool {
		return facts[i].Price < facts[j].Price
	})

	return facts
}

// admitPrice re-checks the budget after the store query. An "affordable"
// request at the default threshold is a hard cutoff; any other budget gets
// the same tolerance band as the listings query.
func admitPrice(price float64, intent model.Intent) bool {
	if intent.Flags.Affordable && intent.Budget == AffordabilityThreshold {
		return price <= float64(AffordabilityThreshold)
	}
	if intent.Budget > 0 {
		return price <= float64(intent.Budget)*repository.PriceTolerance
	}
	return true
}

func deriveTags(spec model.SpecRecord, price float64) []string {
	tags := []string{}
	if spec.RAM >= GamingCapableRAM {
		tags = append(tags, model.TagGamingCapable)
	}
	if utils.IsFlagship(spec.Model) {
		tags = append(tags, model.TagCameraFlagship)
	}
	if price < BudgetFriendlyThreshold {
		tags = append(tags, model.TagBudgetFriendly)
	}
	return tags
}
