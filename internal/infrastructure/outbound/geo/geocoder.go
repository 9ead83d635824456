package geo_client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	"community-feed-service/internal/infrastructure/config"
)

const geocoderService = "geocoder"

type geocodeMatch struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocoder resolves postal addresses through a maps.co style search endpoint.
type Geocoder struct {
	client  *retryablehttp.Client
	baseURL string
	apiKey  string
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewGeocoder(cfg config.Geo, log ports.Logger, metrics ports.MetricsProvider) *Geocoder {
	return &Geocoder{
		client:  newHTTPClient(cfg.Timeout, cfg.RetryMax, log),
		baseURL: strings.TrimRight(cfg.GeocoderURL, "/"),
		apiKey:  cfg.GeocoderAPIKey,
		log:     log,
		metrics: metrics,
	}
}

func (g *Geocoder) Resolve(ctx context.Context, address string) (*model.Coordinates, error) {
	g.log.Debug("Resolving address", slog.String("address", address))

	query := url.Values{}
	query.Set("q", address)
	query.Set("api_key", g.apiKey)

	var matches []geocodeMatch
	if _, err := getJSON(ctx, g.client, g.baseURL+"/search", query, &matches, geocoderService, g.log, g.metrics); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		g.log.Debug("Address has no geocoding match", slog.String("address", address))
		return nil, custom_errors.ErrAddressUnresolvable
	}

	lat, err := strconv.ParseFloat(matches[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", custom_errors.ErrUpstreamUnavailable, matches[0].Lat)
	}
	lon, err := strconv.ParseFloat(matches[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", custom_errors.ErrUpstreamUnavailable, matches[0].Lon)
	}

	return &model.Coordinates{Latitude: lat, Longitude: lon}, nil
}
