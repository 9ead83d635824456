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

const distanceService = "distance_matrix"

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

type matrixElement struct {
	Status   string `json:"status"`
	Distance *struct {
		Text  string `json:"text"`
		Value int64  `json:"value"`
	} `json:"distance"`
}

// DistanceMatrix asks a Google distance-matrix compatible API for the driving
// distance between two points in imperial units.
type DistanceMatrix struct {
	client  *retryablehttp.Client
	baseURL string
	apiKey  string
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewDistanceMatrix(cfg config.Geo, log ports.Logger, metrics ports.MetricsProvider) *DistanceMatrix {
	return &DistanceMatrix{
		client:  newHTTPClient(cfg.Timeout, cfg.RetryMax, log),
		baseURL: strings.TrimRight(cfg.DistanceURL, "/"),
		apiKey:  cfg.DistanceAPIKey,
		log:     log,
		metrics: metrics,
	}
}

func formatPoint(c model.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

func (d *DistanceMatrix) Distance(ctx context.Context, origin, destination model.Coordinates) (*model.DistanceResult, error) {
	query := url.Values{}
	query.Set("origins", formatPoint(origin))
	query.Set("destinations", formatPoint(destination))
	query.Set("units", "imperial")
	query.Set("key", d.apiKey)

	var resp matrixResponse
	raw, err := getJSON(ctx, d.client, d.baseURL+"/distancematrix/json", query, &resp, distanceService, d.log, d.metrics)
	if err != nil {
		return nil, err
	}

	if resp.Status != "OK" {
		d.log.Warn("Distance matrix rejected request", slog.String("status", resp.Status), slog.String("message", resp.ErrorMessage))
		return nil, fmt.Errorf("%w: distance matrix status %s", custom_errors.ErrUpstreamUnavailable, resp.Status)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("%w: distance matrix returned no elements", custom_errors.ErrUpstreamUnavailable)
	}

	element := resp.Rows[0].Elements[0]
	switch element.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS":
		return nil, custom_errors.ErrRouteNotFound
	default:
		return nil, fmt.Errorf("%w: distance element status %s", custom_errors.ErrUpstreamUnavailable, element.Status)
	}
	if element.Distance == nil || element.Distance.Text == "" {
		return nil, fmt.Errorf("%w: distance element has no text", custom_errors.ErrUpstreamUnavailable)
	}

	return &model.DistanceResult{Text: element.Distance.Text, Raw: raw}, nil
}
