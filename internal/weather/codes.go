package weather

import "strings"

// FallbackIcon is used for any weather code missing from a CodeTable.
const FallbackIcon = "icons8-puzzled"

// UnknownDescription is used for any weather code missing from a CodeTable.
const UnknownDescription = "Unknown"

// CodeInfo is the human-readable view of a WMO weather code.
type CodeInfo struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CodeTable maps WMO weather codes to descriptions and icons.
type CodeTable map[int]CodeInfo

// Describe never fails: unmapped codes, including negative ones, get the
// Unknown/fallback pair.
func (t CodeTable) Describe(code int) CodeInfo {
	if info, ok := t[code]; ok {
		return info
	}
	return CodeInfo{Description: UnknownDescription, Icon: FallbackIcon}
}

// DefaultCodeTable returns a fresh copy of the WMO 4677 table the bot ships
// with. Icons for 55-57 and 73/75 point at the sun icon; that mirrors the
// shipped icon set and is kept as-is.
func DefaultCodeTable() CodeTable {
	return CodeTable{
		0:  {"Clear sky", "icons8-sun"},
		1:  {"Mainly clear", "icons8-partly-cloudy-day"},
		2:  {"Partly cloudy", "icons8-partly-cloudy-day"},
		3:  {"Overcast", "icons8-cloud"},
		45: {"Fog", "icons8-fog"},
		46: {"Depositing rime fog", "icons8-haze"},
		51: {"Light drizzle", "icons8-light-rain"},
		53: {"Moderate drizzle", "icons8-moderate-rain"},
		55: {"Dense intensity drizzle", "icons8-sun"},
		56: {"Light freezing drizzle", "icons8-sun"},
		57: {"Dense freezing drizzle", "icons8-sun"},
		61: {"Slight rain", "icons8-light-rain"},
		63: {"Moderate rain", "icons8-moderate-rain"},
		65: {"Heavy rain", "icons8-rainfall"},
		66: {"Light freezing rain", "icons8-sleet"},
		67: {"Heavy freezing rain", "icons8-sleet"},
		71: {"Slight snowfall", "icons8-light-snow"},
		73: {"Moderate snowfall", "icons8-sun"},
		75: {"Heavy snowfall", "icons8-sun"},
		77: {"Snow grains", "icons8-snow-storm"},
		80: {"Slight rain showers", "icons8-light-rain"},
		81: {"Moderate rain showers", "icons8-moderate-rain"},
		82: {"Violent rain showers", "icons8-rainfall"},
		85: {"Slight snow showers", "icons8-snow"},
		86: {"Heavy snow showers", "icons8-light-snow"},
		95: {"Thunderstorm", "icons8-storm-with-heavy-rain"},
		96: {"Slight hail thunderstorm", "icons8-storm"},
		99: {"Heavy hail thunderstorm", "icons8-storm-with-heavy-rain"},
	}
}

// IconURL joins an icon identifier onto a base URL. An empty base yields "".
func IconURL(baseURL, icon string) string {
	if baseURL == "" || icon == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + icon + ".png"
}

// mapOpenMeteoCondition buckets a WMO code into a coarse Condition.
func mapOpenMeteoCondition(code int) Condition {
	switch {
	case code == 0:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == 45 || code == 46 || code == 48:
		return ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return ConditionSnow
	case code >= 95 && code <= 99:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}
