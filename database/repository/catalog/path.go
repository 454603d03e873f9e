package catalogRepo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadPath is returned for paths that do not name a known collection.
var ErrBadPath = errors.New("unsupported catalog path")

// parentKeys maps nested collections to the field holding their parent id,
// so "rooms/<hotelId>" reads the rooms collection filtered on hotelId.
var parentKeys = map[string]string{
	"rooms": "hotelId",
}

// target is a catalog path resolved to a flat collection plus equality
// filters.
type target struct {
	collection string
	filters    [][2]string
}

func resolve(path string) (target, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return target{collection: parts[0]}, nil
	case len(parts) == 2 && parts[1] != "":
		key, ok := parentKeys[parts[0]]
		if !ok {
			break
		}
		return target{collection: parts[0], filters: [][2]string{{key, parts[1]}}}, nil
	}
	return target{}, fmt.Errorf("%w: %q", ErrBadPath, path)
}

func (t target) with(field, value string) target {
	filters := append(append([][2]string(nil), t.filters...), [2]string{field, value})
	return target{collection: t.collection, filters: filters}
}
