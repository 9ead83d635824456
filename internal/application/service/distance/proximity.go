package distance_service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
)

const feetPerMile = 5280.0

// distanceText is a leading number followed by an optional unit, with or
// without a space between them.
var distanceText = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*([A-Za-z]*)\.?$`)

var milesPerUnit = map[string]float64{
	"mi":     1,
	"mile":   1,
	"miles":  1,
	"ft":     1 / feetPerMile,
	"feet":   1 / feetPerMile,
	"km":     0.621371,
	"m":      0.000621371,
	"meters": 0.000621371,
}

// ParseMiles reads a distance-matrix text such as "1,204 mi" or "850 ft" and
// returns the distance in miles. A missing unit means miles.
func ParseMiles(text string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty distance text", custom_errors.ErrUpstreamUnavailable)
	}

	match := distanceText.FindStringSubmatch(cleaned)
	if match == nil {
		return 0, fmt.Errorf("%w: unparseable distance %q", custom_errors.ErrUpstreamUnavailable, text)
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: unparseable distance %q", custom_errors.ErrUpstreamUnavailable, text)
	}

	factor := 1.0
	if match[2] != "" {
		unit, ok := milesPerUnit[strings.ToLower(match[2])]
		if !ok {
			return 0, fmt.Errorf("%w: unknown distance unit %q", custom_errors.ErrUpstreamUnavailable, match[2])
		}
		factor = unit
	}
	return value * factor, nil
}

// NewProximity rounds the distance text up to whole miles.
func NewProximity(text string) (*model.Proximity, error) {
	miles, err := ParseMiles(text)
	if err != nil {
		return nil, err
	}

	rounded := int(math.Ceil(miles))
	display := fmt.Sprintf("%d miles", rounded)
	if rounded == 1 {
		display = "1 mile"
	}
	return &model.Proximity{Miles: rounded, Display: display, RawText: text}, nil
}
