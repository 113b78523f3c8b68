package cache

import "fmt"

// KeyKind selects the storage keying strategy for a resource.
type KeyKind int

const (
	// KeyBySearch keys rows by the free-text search query that produced them.
	KeyBySearch KeyKind = iota

	// KeyByLocation keys rows by the id of a previously stored location.
	KeyByLocation
)

func (k KeyKind) String() string {
	switch k {
	case KeyBySearch:
		return "search"
	case KeyByLocation:
		return "location"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

// Key is a tagged lookup key: either a free-text search string or a location
// id. The tag must match the owning resource's KeyKind; the store and the
// resolver reject mismatches.
type Key struct {
	kind       KeyKind
	search     string
	locationID int64
}

// SearchKey builds a key for search-keyed resources.
func SearchKey(query string) Key {
	return Key{kind: KeyBySearch, search: query}
}

// LocationKey builds a key for location-keyed resources.
func LocationKey(id int64) Key {
	return Key{kind: KeyByLocation, locationID: id}
}

// Kind returns the key's tag.
func (k Key) Kind() KeyKind { return k.kind }

// Search returns the search string for KeyBySearch keys.
func (k Key) Search() string { return k.search }

// LocationID returns the location id for KeyByLocation keys.
func (k Key) LocationID() int64 { return k.locationID }

func (k Key) String() string {
	if k.kind == KeyBySearch {
		return fmt.Sprintf("search=%q", k.search)
	}
	return fmt.Sprintf("location=%d", k.locationID)
}

// value returns the key as a query parameter.
func (k Key) value() any {
	if k.kind == KeyBySearch {
		return k.search
	}
	return k.locationID
}
