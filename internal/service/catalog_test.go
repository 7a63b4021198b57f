package service

import (
	"context"
	"errors"
	"testing"

	"gadgetbot/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecCatalog_Filters(t *testing.T) {
	catalog := NewSpecCatalog(&fakeDevices{devices: testDevices()})
	ctx := context.Background()

	tests := []struct {
		name    string
		brand   string
		minRAM  int
		concert bool
		want    []string
	}{
		{name: "no filters", want: []string{"galaxy_s24_ultra", "galaxy_a05s", "iphone_15", "iphone_15_pro_max", "poco_f5"}},
		{name: "brand case-insensitive", brand: "samsung", want: []string{"galaxy_s24_ultra", "galaxy_a05s"}},
		{name: "ram bound", minRAM: 8, want: []string{"galaxy_s24_ultra", "iphone_15_pro_max", "poco_f5"}},
		{name: "brand and ram", brand: "Samsung", minRAM: 8, want: []string{"galaxy_s24_ultra"}},
		{name: "concert keeps flagships", concert: true, want: []string{"galaxy_s24_ultra", "iphone_15_pro_max"}},
		{name: "unknown brand", brand: "Nokia", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.Query(ctx, tt.brand, tt.minRAM, tt.concert)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for id, spec := range got {
				assert.Equal(t, id, spec.ID)
				ids = append(ids, id)
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}

func TestSpecCatalog_BrandIsNotARegex(t *testing.T) {
	catalog := NewSpecCatalog(&fakeDevices{devices: testDevices()})

	got, err := catalog.Query(context.Background(), ".*", 0, false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSpecCatalog_Unavailable(t *testing.T) {
	_, err := NewSpecCatalog(nil).Query(context.Background(), "", 0, false)
	assert.True(t, errors.Is(err, ErrGraphUnavailable))

	_, err = NewSpecCatalog(&fakeDevices{err: errors.New("boom")}).Query(context.Background(), "", 0, false)
	assert.True(t, errors.Is(err, ErrGraphUnavailable))

	var store *graph.Store
	_, err = NewSpecCatalog(store).Query(context.Background(), "", 0, false)
	assert.True(t, errors.Is(err, ErrGraphUnavailable))
}
