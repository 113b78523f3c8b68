package cache

import (
	"errors"
	"testing"
	"time"
)

func TestPolicyFor(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		resource string
		keyKind  KeyKind
		table    string
	}{
		{ResourceLocations, KeyBySearch, "locations"},
		{ResourceWeather, KeyByLocation, "weathers"},
		{ResourceEvents, KeyByLocation, "events"},
		{ResourceMovies, KeyByLocation, "movies"},
		{ResourceYelp, KeyByLocation, "yelps"},
	}

	for _, tt := range tests {
		policy, err := registry.PolicyFor(tt.resource)
		if err != nil {
			t.Fatalf("PolicyFor(%q) failed: %v", tt.resource, err)
		}
		if policy.KeyKind != tt.keyKind {
			t.Errorf("PolicyFor(%q).KeyKind = %s, want %s", tt.resource, policy.KeyKind, tt.keyKind)
		}
		if policy.Table != tt.table {
			t.Errorf("PolicyFor(%q).Table = %s, want %s", tt.resource, policy.Table, tt.table)
		}
		if policy.TTL <= 0 {
			t.Errorf("PolicyFor(%q).TTL = %v, want positive", tt.resource, policy.TTL)
		}
		if len(policy.Columns) == 0 {
			t.Errorf("PolicyFor(%q) has no canonical columns", tt.resource)
		}
	}
}

func TestPolicyForUnknownResource(t *testing.T) {
	registry := DefaultRegistry()

	_, err := registry.PolicyFor("restaurants")
	if !errors.Is(err, ErrUnknownResource) {
		t.Errorf("PolicyFor(restaurants) error = %v, want ErrUnknownResource", err)
	}
}

func TestWeatherTTL(t *testing.T) {
	policy, err := DefaultRegistry().PolicyFor(ResourceWeather)
	if err != nil {
		t.Fatalf("PolicyFor(weather) failed: %v", err)
	}
	if policy.TTL != 15*time.Second {
		t.Errorf("weather TTL = %v, want 15s", policy.TTL)
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	p := Policy{Resource: "weather", Table: "weathers", TTL: time.Second, KeyKind: KeyByLocation}

	_, err := NewRegistry(p, p)
	if err == nil {
		t.Error("NewRegistry with duplicate resources should fail")
	}
}

func TestNewRegistryRejectsNonPositiveTTL(t *testing.T) {
	p := Policy{Resource: "weather", Table: "weathers", KeyKind: KeyByLocation}

	_, err := NewRegistry(p)
	if err == nil {
		t.Error("NewRegistry with zero TTL should fail")
	}
}

func TestKeyTags(t *testing.T) {
	search := SearchKey("Seattle")
	if search.Kind() != KeyBySearch {
		t.Errorf("SearchKey kind = %s, want search", search.Kind())
	}
	if search.Search() != "Seattle" {
		t.Errorf("SearchKey value = %q, want Seattle", search.Search())
	}

	location := LocationKey(42)
	if location.Kind() != KeyByLocation {
		t.Errorf("LocationKey kind = %s, want location", location.Kind())
	}
	if location.LocationID() != 42 {
		t.Errorf("LocationKey value = %d, want 42", location.LocationID())
	}
}
