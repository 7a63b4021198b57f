package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gadgetbot/internal/graph"
	"gadgetbot/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chatFixture struct {
	devices   *fakeDevices
	querier   *fakeQuerier
	generator *fakeGenerator
	metrics   *observability.Collector
	service   *ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		devices:   &fakeDevices{devices: testDevices()},
		querier:   &fakeQuerier{listings: testListings()},
		generator: &fakeGenerator{reply: "Rekomendasi saya: Galaxy S24 Ultra."},
		metrics:   observability.NewCollector("test"),
	}
	f.service = NewChatService(
		NewSpecCatalog(f.devices),
		NewMarketIndex(f.querier, 50, zap.NewNop(), f.metrics),
		NewPromptAssembler(5),
		f.generator,
		zap.NewNop(),
		f.metrics,
	)
	return f
}

func TestChatService_SamsungGaming(t *testing.T) {
	f := newChatFixture()

	resp, err := f.service.Chat(context.Background(), "cari hp samsung gaming")
	require.NoError(t, err)

	assert.Equal(t, "Rekomendasi saya: Galaxy S24 Ultra.", resp.Response)
	require.NotNil(t, resp.Intent)
	assert.Equal(t, "Samsung", resp.Intent.BrandName())
	assert.Equal(t, 8, resp.Intent.MinRAM)
	assert.Equal(t, []string{TagGaming}, resp.Intent.UseCaseTags)

	require.Len(t, resp.DebugFacts, 1)
	assert.Equal(t, "Galaxy S24 Ultra", resp.DebugFacts[0].Model)

	require.Len(t, f.querier.filters, 1)
	assert.Equal(t, "Samsung", f.querier.filters[0].Text)

	assert.Equal(t, 1, f.generator.calls)
	assert.Equal(t, "cari hp samsung gaming", f.generator.user)
	assert.Contains(t, f.generator.system, "Galaxy S24 Ultra - Rp 18.000.000")
	assert.Contains(t, f.generator.system, TagGaming)
}

func TestChatService_UnknownBrandSkipsMarket(t *testing.T) {
	f := newChatFixture()
	f.devices.devices = nil

	resp, err := f.service.Chat(context.Background(), "hp nokia")
	require.NoError(t, err)

	assert.Empty(t, resp.DebugFacts)
	assert.Empty(t, f.querier.filters)
	assert.Contains(t, f.generator.system, "Tidak ditemukan produk")
}

func TestChatService_GraphUnavailable(t *testing.T) {
	f := newChatFixture()
	f.devices.err = errors.New("parse error")

	_, err := f.service.Chat(context.Background(), "hp samsung")
	assert.True(t, errors.Is(err, ErrGraphUnavailable))
	assert.Zero(t, f.generator.calls)
}

func TestChatService_MarketDegrades(t *testing.T) {
	f := newChatFixture()
	f.querier.err = errors.New("connection refused")

	resp, err := f.service.Chat(context.Background(), "hp samsung")
	require.NoError(t, err)

	assert.Empty(t, resp.DebugFacts)
	assert.Equal(t, 1, f.generator.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.MarketDegraded))
}

func TestChatService_GeneratorFailureBecomesText(t *testing.T) {
	f := newChatFixture()
	f.generator.err = errors.Join(ErrGeneratorFailure, errors.New("status 500"))

	resp, err := f.service.Chat(context.Background(), "hp poco")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Response, generatorErrorPrefix))
	assert.Contains(t, resp.Response, "status 500")
	assert.Len(t, resp.DebugFacts, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GeneratorFailures.WithLabelValues("failure")))
}

func TestChatService_MissingCredential(t *testing.T) {
	f := newChatFixture()
	f.generator.err = ErrMissingCredential

	resp, err := f.service.Chat(context.Background(), "hp poco")
	require.NoError(t, err)
	assert.Equal(t, MissingCredentialMessage, resp.Response)

	svc := NewChatService(NewSpecCatalog(f.devices), NewMarketIndex(f.querier, 50, nil, nil), NewPromptAssembler(5), nil, nil, nil)
	resp, err = svc.Chat(context.Background(), "hp poco")
	require.NoError(t, err)
	assert.Equal(t, MissingCredentialMessage, resp.Response)
}

func TestChatService_BlockedTopic(t *testing.T) {
	f := newChatFixture()

	resp, err := f.service.Chat(context.Background(), "hp buat judi online")
	require.NoError(t, err)

	assert.Equal(t, SafeResponse, resp.Response)
	assert.Empty(t, resp.DebugFacts)
	assert.Zero(t, f.devices.calls)
	assert.Zero(t, f.generator.calls)
}

func TestChatService_EmptyMessage(t *testing.T) {
	f := newChatFixture()

	for _, msg := range []string{"", "   \n"} {
		_, err := f.service.Chat(context.Background(), msg)
		assert.True(t, errors.Is(err, ErrEmptyMessage))
	}
	assert.Zero(t, f.devices.calls)
	assert.Zero(t, f.generator.calls)
}

func TestChatService_ResolveIsIdempotent(t *testing.T) {
	f := newChatFixture()
	const msg = "iphone 15 pro max budget 20 juta"

	first, err := f.service.Resolve(context.Background(), msg)
	require.NoError(t, err)
	require.NotEmpty(t, first.Facts)

	for i := 0; i < 5; i++ {
		again, err := f.service.Resolve(context.Background(), msg)
		require.NoError(t, err)
		assert.Equal(t, first.Facts, again.Facts)
		assert.Equal(t, first.Prompt, again.Prompt)
	}
	assert.Zero(t, f.generator.calls)
}

func TestChatService_SelectionPrefersKeywords(t *testing.T) {
	f := newChatFixture()

	res, err := f.service.Resolve(context.Background(), "apple yang pro max")
	require.NoError(t, err)

	require.NotEmpty(t, res.Selected)
	assert.Equal(t, "iPhone 15 Pro Max", res.Selected[0].Model)
	for _, fact := range res.Facts {
		assert.Equal(t, "Apple", fact.Specs.Brand)
	}
}

func TestChatService_BundledKnowledgeBase(t *testing.T) {
	store, err := graph.Load("../../data/knowledge_base.mg")
	require.NoError(t, err)

	querier := &fakeQuerier{listings: testListings()}
	generator := &fakeGenerator{reply: "ok"}
	svc := NewChatService(
		NewSpecCatalog(store),
		NewMarketIndex(querier, 50, zap.NewNop(), nil),
		NewPromptAssembler(5),
		generator,
		zap.NewNop(),
		nil,
	)

	res, err := svc.Resolve(context.Background(), "cari hp samsung gaming")
	require.NoError(t, err)

	require.Len(t, res.Facts, 1)
	fact := res.Facts[0]
	assert.Equal(t, "Galaxy S24 Ultra", fact.Model)
	assert.Equal(t, "Snapdragon 8 Gen 3", fact.Specs.Processor)
	assert.Equal(t, 12, fact.Specs.RAM)
	assert.Equal(t, float64(18_000_000), fact.Price)
	assert.Contains(t, res.Prompt, "Galaxy S24 Ultra - Rp 18.000.000")
	require.Len(t, querier.filters, 1)
	assert.Equal(t, "Samsung", querier.filters[0].Text)
}

func TestChatService_ListingKeywordForBrand(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{message: "iphone murah", want: "iphone"},
		{message: "pixel buat foto", want: "pixel"},
		{message: "poco buat gaming", want: "Poco"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			f := newChatFixture()
			f.devices.devices = append(f.devices.devices, graph.Device{
				ID: "pixel_9_pro", Model: "Pixel 9 Pro", Brand: "Google", RAM: 16, Processor: "Tensor G4", Storage: 256,
			})

			_, err := f.service.Resolve(context.Background(), tt.message)
			require.NoError(t, err)

			require.Len(t, f.querier.filters, 1)
			assert.Equal(t, tt.want, f.querier.filters[0].Text)
		})
	}
}
