// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// ConditionIcons maps the condition part of an OpenWeatherMap icon id to emoji icons for
// day (true) and night (false)
var ConditionIcons = map[string]map[bool]string{
	"01": {true: "☀️", false: "🌙"},
	"02": {true: "🌤️", false: "☁️"},
	"03": {true: "⛅", false: "☁️"},
	"04": {true: "☁️", false: "☁️"},
	"09": {true: "🌧️", false: "🌧️"},
	"10": {true: "🌦️", false: "🌧️"},
	"11": {true: "⛈️", false: "⛈️"},
	"13": {true: "🌨️", false: "🌨️"},
	"50": {true: "🌫️", false: "🌫️"},
}

// ConditionIcon returns the emoji for an OpenWeatherMap icon id like "10d". Unknown ids
// yield an empty string.
func ConditionIcon(icon string) string {
	if len(icon) != 3 {
		return ""
	}
	icons, ok := ConditionIcons[icon[:2]]
	if !ok {
		return ""
	}
	return icons[icon[2] != 'n']
}
