package feature

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// geometryKinds are the six supported geometry types.
var geometryKinds = map[string]bool{
	"Point":           true,
	"MultiPoint":      true,
	"LineString":      true,
	"MultiLineString": true,
	"Polygon":         true,
	"MultiPolygon":    true,
}

// Error describes one validation failure for one feature.
type Error struct {
	Index   int
	Key     string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("feature %d (%s): %s", e.Index, e.Key, e.Message)
}

// Validate checks one feature's JSON text against the GeoJSON rules the
// engine enforces: type must equal "Feature", and a present geometry.type
// must name a supported geometry kind.
func Validate(featureJSON string, index int, key string) []Error {
	var errs []Error
	if t := gjson.Get(featureJSON, "type"); t.String() != "Feature" {
		errs = append(errs, Error{
			Index:   index,
			Key:     key,
			Message: fmt.Sprintf("type must be %q, got %q", "Feature", t.String()),
		})
	}
	if g := gjson.Get(featureJSON, "geometry.type"); g.Exists() && !geometryKinds[g.String()] {
		errs = append(errs, Error{
			Index:   index,
			Key:     key,
			Message: fmt.Sprintf("unsupported geometry type %q", g.String()),
		})
	}
	return errs
}

// ValidateAll validates every span in the index against lines and returns
// the combined per-feature error list.
func (ix *Index) ValidateAll(lines []string) []Error {
	var errs []Error
	for i, s := range ix.spans {
		errs = append(errs, Validate(ix.Text(lines, s), i, s.Key)...)
	}
	return errs
}
