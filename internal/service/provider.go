// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"errors"
	"fmt"

	"github.com/wneessen/weatherdash/internal/config"
	"github.com/wneessen/weatherdash/internal/geoip"
	"github.com/wneessen/weatherdash/internal/http"
	"github.com/wneessen/weatherdash/internal/logger"
	"github.com/wneessen/weatherdash/internal/weather"
	"github.com/wneessen/weatherdash/internal/weather/provider/openweathermap"
)

func newHTTPClient(conf *config.Config, log *logger.Logger) *http.Client {
	return http.New(log, conf.HTTP.Timeout)
}

// selectWeatherProvider returns the OpenWeatherMap provider. A missing API key is passed on
// unwrapped so the caller can show its reason.
func selectWeatherProvider(conf *config.Config, log *logger.Logger, client *http.Client) (weather.Provider, error) {
	provider, err := openweathermap.New(client, log, openweathermap.Options{
		APIKey:         conf.OpenWeather.APIKey,
		BaseURL:        conf.OpenWeather.BaseURL,
		ForecastPoints: conf.Weather.ForecastPoints,
		RateLimit:      conf.OpenWeather.RateLimit,
		Burst:          conf.OpenWeather.Burst,
	})
	if err != nil {
		var svcErr *weather.ServiceError
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, fmt.Errorf("failed to create weather provider: %w", err)
	}
	return provider, nil
}

func selectLocator(conf *config.Config, log *logger.Logger, client *http.Client) (Locator, error) {
	locator, err := geoip.New(client, log, conf.GeoIP.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create network locator: %w", err)
	}
	return locator, nil
}
