package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gadgetbot/internal/graph"
	"gadgetbot/internal/model"
	"gadgetbot/internal/utils"
)

// DeviceSource is the read side of the knowledge graph
type DeviceSource interface {
	Devices(ctx context.Context) ([]graph.Device, error)
}

// flagshipPattern matches any flagship marker, case-insensitively
var flagshipPattern = func() *regexp.Regexp {
	quoted := make([]string, len(utils.FlagshipMarkers))
	for i, m := range utils.FlagshipMarkers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return regexp.MustCompile("(?i)(" + strings.Join(quoted, "|") + ")")
}()

// SpecCatalog selects candidate devices from the knowledge graph
type SpecCatalog struct {
	source DeviceSource
}

// NewSpecCatalog creates a catalog over a loaded graph. A nil source makes
// every query fail with ErrGraphUnavailable.
func NewSpecCatalog(source DeviceSource) *SpecCatalog {
	return &SpecCatalog{source: source}
}

// Query returns devices matching the brand, RAM and concert filters keyed by id.
// No match is an empty map, not an error.
func (c *SpecCatalog) Query(ctx context.Context, brand string, minRAM int, concert bool) (map[string]model.SpecRecord, error) {
	if c.source == nil {
		return nil, ErrGraphUnavailable
	}

	devices, err := c.source.Devices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphUnavailable, err)
	}

	var brandPattern *regexp.Regexp
	if brand = strings.TrimSpace(brand); brand != "" {
		brandPattern = regexp.MustCompile("(?i)" + regexp.QuoteMeta(brand))
	}

	candidates := make(map[string]model.SpecRecord)
	for _, d := range devices {
		if brandPattern != nil && !brandPattern.MatchString(d.Brand) {
			continue
		}
		if minRAM > 0 && d.RAM < minRAM {
			continue
		}
		if concert && !flagshipPattern.MatchString(d.Model) {
			continue
		}
		candidates[d.ID] = model.SpecRecord{
			ID:        d.ID,
			Model:     d.Model,
			Brand:     d.Brand,
			RAM:       d.RAM,
			Processor: d.Processor,
			Storage:   d.Storage,
		}
	}
	return candidates, nil
}
