// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/wneessen/weatherdash/internal/http"
	"github.com/wneessen/weatherdash/internal/logger"
	"github.com/wneessen/weatherdash/internal/weather"
)

const (
	APIEndpoint   = "http://ip-api.com/json/"
	statusSuccess = "success"
)

// Locator resolves the city of the host's public IP address.
type Locator struct {
	endpoint string
	http     *http.Client
	log      *logger.Logger
}

type APIResult struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Region      string  `json:"regionName,omitempty"`
	City        string  `json:"city,omitempty"`
	Latitude    float64 `json:"lat,omitempty"`
	Longitude   float64 `json:"lon,omitempty"`
	TimeZone    string  `json:"timezone,omitempty"`
	Query       string  `json:"query,omitempty"`
}

// New returns a Locator for the given endpoint. An empty endpoint selects APIEndpoint.
func New(http *http.Client, log *logger.Logger, endpoint string) (*Locator, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if endpoint == "" {
		endpoint = APIEndpoint
	}
	return &Locator{endpoint: endpoint, http: http, log: log}, nil
}

func (l *Locator) Name() string {
	return "ip-api"
}

// Locate returns the city name the lookup service associates with the caller. Failures are
// reported as *weather.ServiceError. The lookup is bound by the timeout of the HTTP client.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	result := new(APIResult)
	code, err := l.http.Get(ctx, l.endpoint, result, nil, nil)
	if err != nil {
		var statusErr *http.StatusError
		if errors.As(err, &statusErr) || (code >= 200 && code <= 299) {
			return "", weather.NewServiceError("Unable to detect location", err)
		}
		return "", weather.NewServiceError("Network error while detecting location", err)
	}

	city := strings.TrimSpace(result.City)
	if result.Status != statusSuccess || city == "" {
		reason := "Unable to detect location"
		if result.Message != "" {
			reason += ": " + result.Message
		}
		l.log.Debug("network location lookup unsuccessful", slog.String("status", result.Status),
			slog.String("message", result.Message))
		return "", weather.NewServiceError(reason, nil)
	}

	l.log.Debug("network location resolved", slog.String("city", city),
		slog.String("country", result.CountryCode))
	return city, nil
}
