// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders the dashboard state as plain text.
package presenter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/weatherdash/internal/logger"
	"github.com/wneessen/weatherdash/internal/weather"
)

const (
	ClockFormat = "03:04 PM"

	statusPrefixOK    = "[ok]"
	statusPrefixError = "[error]"
	loadingText       = "Loading..."
	columnGap         = "  "
)

const weatherTpl = `{{.ConditionIcon}} {{.Current.City}}, {{.Current.Country}} · {{.Current.Description}}
Temperature: {{floatFormat .Current.Temperature 1}}{{.TempUnit}} (feels like {{floatFormat .Current.FeelsLike 1}}{{.TempUnit}})
Humidity:    {{.Current.Humidity}}%
Wind:        {{floatFormat .Current.WindSpeed 1}} {{.WindUnit}}
Sunrise:     {{timeFormat .Sunrise}}
Sunset:      {{timeFormat .Sunset}}
Moon phase:  {{.MoonPhaseIcon}} {{.MoonPhase}}
Air quality: AQI {{.Air.AQI}} · {{.Air.Label}}
  Fine particulates (PM2.5):  {{floatFormat .Air.PM25 1}} µg/m³
  Coarse particulates (PM10): {{floatFormat .Air.PM10 1}} µg/m³
  Ozone (O₃):                 {{floatFormat .Air.O3 1}} µg/m³
  Nitrogen dioxide (NO₂):     {{floatFormat .Air.NO2 1}} µg/m³
  Carbon monoxide (CO):       {{floatFormat .Air.CO 1}} µg/m³
{{- if .Hourly}}
Forecast (UTC):
{{- range .Hourly}}
  {{pad .Label 5}} {{pad .ConditionIcon 2}} {{pad (printf "%s%s" (floatFormat .Temperature 1) $.TempUnit) 8}} {{.Humidity}}% {{.Description}}
{{- end}}
{{- end}}
`

// TemplateContext is the data the weather template is executed with.
type TemplateContext struct {
	Current       weather.Snapshot
	Air           weather.AirQuality
	Hourly        []HourlyView
	ConditionIcon string
	TempUnit      string
	WindUnit      string
	Sunrise       time.Time
	Sunset        time.Time
	MoonPhase     string
	MoonPhaseIcon string
}

// HourlyView wraps a forecast point with presentation-related fields.
type HourlyView struct {
	weather.HourlyPoint
	ConditionIcon string
}

// Presenter writes the dashboard state to an io.Writer. It is safe for concurrent use.
type Presenter struct {
	mu     sync.Mutex
	out    io.Writer
	logger *logger.Logger
	tpl    *template.Template
	now    func() time.Time
}

func New(out io.Writer, log *logger.Logger) (*Presenter, error) {
	p := &Presenter{
		out:    out,
		logger: log,
		now:    time.Now,
	}
	tpl, err := template.New("weather").Funcs(p.templateFuncMap()).Parse(weatherTpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	p.tpl = tpl
	return p, nil
}

func (p *Presenter) Status(msg string, success bool) {
	prefix := statusPrefixError
	if success {
		prefix = statusPrefixOK
	}
	p.writeLine(prefix + " " + msg)
}

func (p *Presenter) Loading(loading bool) {
	if loading {
		p.writeLine(loadingText)
	}
}

func (p *Presenter) Weather(current weather.Snapshot, air weather.AirQuality, hourly []weather.HourlyPoint) {
	buf := bytes.NewBuffer(nil)
	if err := p.tpl.Execute(buf, p.BuildContext(current, air, hourly)); err != nil {
		p.logger.Error("failed to render weather template", logger.Err(err))
		return
	}
	p.write(buf.String())
}

func (p *Presenter) Watchlist(snapshots []weather.Snapshot, placeholder string) {
	if placeholder != "" || len(snapshots) == 0 {
		p.writeLine("Comparison: " + placeholder)
		return
	}
	p.write("Comparison:\n" + WatchlistTable(snapshots))
}

func (p *Presenter) Countdown(text string) {
	p.writeLine("⏳ " + text)
}

// BuildContext assembles the template data for a search result.
func (p *Presenter) BuildContext(current weather.Snapshot, air weather.AirQuality,
	hourly []weather.HourlyPoint,
) TemplateContext {
	phase := moonphase.New(p.now()).PhaseName()
	views := make([]HourlyView, 0, len(hourly))
	for _, point := range hourly {
		views = append(views, HourlyView{HourlyPoint: point, ConditionIcon: ConditionIcon(point.Icon)})
	}
	return TemplateContext{
		Current:       current,
		Air:           air,
		Hourly:        views,
		ConditionIcon: ConditionIcon(current.Icon),
		TempUnit:      current.Units.TemperatureSymbol(),
		WindUnit:      current.Units.WindSpeedSymbol(),
		Sunrise:       current.LocalSunrise(),
		Sunset:        current.LocalSunset(),
		MoonPhase:     phase,
		MoonPhaseIcon: MoonPhaseIcon[phase],
	}
}

// WatchlistTable renders snapshots as a table with one row per city. Columns are aligned
// by display width.
func WatchlistTable(snapshots []weather.Snapshot) string {
	rows := [][]string{{"City", "Temp", "Condition", "Humidity", "Wind"}}
	for _, s := range snapshots {
		rows = append(rows, []string{
			s.City + ", " + s.Country,
			floatFormat(s.Temperature, 1) + s.Units.TemperatureSymbol(),
			strings.TrimSpace(ConditionIcon(s.Icon) + " " + s.Description),
			fmt.Sprintf("%d%%", s.Humidity),
			floatFormat(s.WindSpeed, 1) + " " + s.Units.WindSpeedSymbol(),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, col := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(col))
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		cols := make([]string, len(row))
		for i, col := range row {
			if i == len(row)-1 {
				cols[i] = col
				continue
			}
			cols[i] = runewidth.FillRight(col, widths[i])
		}
		sb.WriteString(strings.Join(cols, columnGap))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p *Presenter) writeLine(line string) {
	p.write(line + "\n")
}

func (p *Presenter) write(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.out, text); err != nil {
		p.logger.Error("failed to write output", logger.Err(err))
	}
}
