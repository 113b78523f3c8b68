package cache

import (
	"fmt"
	"sort"
	"time"
)

// Column is one canonical field of a resource: its column name and the SQL
// type EnsureSchema uses to create it.
type Column struct {
	Name string
	Type string
}

// Policy is the immutable per-resource cache policy: which table holds the
// rows, how they are keyed, how long they stay fresh, and the closed set of
// canonical columns. All SQL identifiers the Store interpolates come from
// here, never from caller input.
type Policy struct {
	Resource string
	Table    string
	TTL      time.Duration
	KeyKind  KeyKind
	Columns  []Column
}

// columnNames returns the canonical column names in declaration order.
func (p Policy) columnNames() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

// Registry maps resource type names to their policies.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry builds a registry from the given policies. Resource names must
// be unique.
func NewRegistry(policies ...Policy) (*Registry, error) {
	r := &Registry{policies: make(map[string]Policy, len(policies))}
	for _, p := range policies {
		if _, exists := r.policies[p.Resource]; exists {
			return nil, fmt.Errorf("duplicate resource %q", p.Resource)
		}
		if p.TTL <= 0 {
			return nil, fmt.Errorf("resource %q: TTL must be positive", p.Resource)
		}
		r.policies[p.Resource] = p
	}
	return r, nil
}

// PolicyFor looks up the policy for a resource type.
func (r *Registry) PolicyFor(resource string) (Policy, error) {
	p, ok := r.policies[resource]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	return p, nil
}

// Policies returns all registered policies sorted by resource name.
func (r *Registry) Policies() []Policy {
	out := make([]Policy, 0, len(r.policies))
	for _, p := range r.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out
}

// Resource type names served by the default registry.
const (
	ResourceLocations = "locations"
	ResourceWeather   = "weather"
	ResourceEvents    = "events"
	ResourceMovies    = "movies"
	ResourceYelp      = "yelp"
)

// DefaultRegistry returns the registry for the five supported resources.
// TTLs mirror how quickly each upstream's data goes stale: forecasts in
// seconds, event listings in hours, movie metadata in weeks.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Policy{
			Resource: ResourceLocations,
			Table:    "locations",
			TTL:      30 * 24 * time.Hour,
			KeyKind:  KeyBySearch,
			Columns: []Column{
				{Name: "formatted_query", Type: "TEXT"},
				{Name: "latitude", Type: "DOUBLE PRECISION"},
				{Name: "longitude", Type: "DOUBLE PRECISION"},
			},
		},
		Policy{
			Resource: ResourceWeather,
			Table:    "weathers",
			TTL:      15 * time.Second,
			KeyKind:  KeyByLocation,
			Columns: []Column{
				{Name: "forecast", Type: "TEXT"},
				{Name: "time", Type: "TEXT"},
			},
		},
		Policy{
			Resource: ResourceEvents,
			Table:    "events",
			TTL:      6 * time.Hour,
			KeyKind:  KeyByLocation,
			Columns: []Column{
				{Name: "link", Type: "TEXT"},
				{Name: "name", Type: "TEXT"},
				{Name: "event_date", Type: "TEXT"},
				{Name: "summary", Type: "TEXT"},
			},
		},
		Policy{
			Resource: ResourceMovies,
			Table:    "movies",
			TTL:      30 * 24 * time.Hour,
			KeyKind:  KeyByLocation,
			Columns: []Column{
				{Name: "title", Type: "TEXT"},
				{Name: "overview", Type: "TEXT"},
				{Name: "average_votes", Type: "DOUBLE PRECISION"},
				{Name: "total_votes", Type: "BIGINT"},
				{Name: "image_url", Type: "TEXT"},
				{Name: "popularity", Type: "DOUBLE PRECISION"},
				{Name: "released_on", Type: "TEXT"},
			},
		},
		Policy{
			Resource: ResourceYelp,
			Table:    "yelps",
			TTL:      24 * time.Hour,
			KeyKind:  KeyByLocation,
			Columns: []Column{
				{Name: "name", Type: "TEXT"},
				{Name: "image_url", Type: "TEXT"},
				{Name: "price", Type: "TEXT"},
				{Name: "rating", Type: "DOUBLE PRECISION"},
				{Name: "url", Type: "TEXT"},
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}
