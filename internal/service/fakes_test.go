package service

import (
	"context"
	"sync"

	"gadgetbot/internal/graph"
	"gadgetbot/internal/model"
	"gadgetbot/internal/repository"
)

type fakeDevices struct {
	devices []graph.Device
	err     error
	calls   int
}

func (f *fakeDevices) Devices(context.Context) ([]graph.Device, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.devices, nil
}

type fakeQuerier struct {
	listings []model.ListingRecord
	err      error
	filters  []repository.ListingFilter
}

func (f *fakeQuerier) QueryListings(_ context.Context, filter repository.ListingFilter) ([]model.ListingRecord, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

type fakeGenerator struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	system string
	user   string
}

func (f *fakeGenerator) Generate(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.system = system
	f.user = user
	return f.reply, f.err
}

func testDevices() []graph.Device {
	return []graph.Device{
		{ID: "galaxy_s24_ultra", Model: "Galaxy S24 Ultra", Brand: "Samsung", RAM: 12, Processor: "Snapdragon 8 Gen 3", Storage: 256},
		{ID: "galaxy_a05s", Model: "Galaxy A05s", Brand: "Samsung", RAM: 4, Processor: "Snapdragon 680", Storage: 128},
		{ID: "iphone_15", Model: "iPhone 15", Brand: "Apple", RAM: 6, Processor: "A16 Bionic", Storage: 128},
		{ID: "iphone_15_pro_max", Model: "iPhone 15 Pro Max", Brand: "Apple", RAM: 8, Processor: "A17 Pro", Storage: 256},
		{ID: "poco_f5", Model: "Poco F5", Brand: "Poco", RAM: 12, Processor: "Snapdragon 7+ Gen 2", Storage: 256},
	}
}

func testListings() []model.ListingRecord {
	return []model.ListingRecord{
		{StoreName: "Gadget Center", ListingTitle: "Samsung Galaxy A05s 4/128 Baru", Price: 1_500_000, Stock: 10, Condition: "Baru"},
		{StoreName: "Poco Store", ListingTitle: "Xiaomi Poco F5 12/256", Price: 4_800_000, Stock: 3, Condition: "Baru"},
		{StoreName: "iBox", ListingTitle: "Apple iPhone 15 128GB", Price: 12_500_000, Stock: 2, Condition: "Baru"},
		{StoreName: "Erafone", ListingTitle: "Samsung Galaxy S24 Ultra 12/256 Baru", Price: 18_000_000, Stock: 1, Condition: "Baru"},
		{StoreName: "iBox", ListingTitle: "Apple iPhone 15 Pro Max 256GB", Price: 21_000_000, Stock: 1, Condition: "Baru"},
		{StoreName: "Second Shop", ListingTitle: "iPhone 15 Pro Max bekas mulus", Price: 15_000_000, Stock: 1, Condition: "Bekas"},
	}
}

func specsFrom(devices []graph.Device) map[string]model.SpecRecord {
	out := make(map[string]model.SpecRecord, len(devices))
	for _, d := range devices {
		out[d.ID] = model.SpecRecord{ID: d.ID, Model: d.Model, Brand: d.Brand, RAM: d.RAM, Processor: d.Processor, Storage: d.Storage}
	}
	return out
}
