package bot

import (
	"errors"

	"github.com/i474232898/weather-bot/internal/weather"
)

// Fixed replies. Error details are only logged.
const (
	msgNoLocation     = "Please provide a location."
	msgNotFound       = "Location not found. Please check the name and try again."
	msgWeatherFailed  = "Unable to retrieve weather information."
	msgForecastFailed = "Unable to retrieve forecast information."
	msgRadarFailed    = "Failed to retrieve radar image."

	msgGuildOnly       = "This command can only be used in a server."
	msgNoRoles         = "No roles available!"
	msgRoleUnavailable = "This role is no longer available!"
	msgRoleFailed      = "Failed to update roles. Please check bot permissions!"
)

// userMessage maps a lookup error to its reply. expected reports whether the
// error is a user input problem rather than a failure worth logging as one.
//
// /radar answers every lookup failure with the same reply.
func userMessage(command string, err error) (msg string, expected bool) {
	expected = errors.Is(err, weather.ErrEmptyQuery) || errors.Is(err, weather.ErrLocationNotFound)
	if command == cmdRadar {
		return msgRadarFailed, expected
	}

	switch {
	case errors.Is(err, weather.ErrEmptyQuery):
		return msgNoLocation, true
	case errors.Is(err, weather.ErrLocationNotFound):
		return msgNotFound, true
	}

	switch command {
	case cmdForecast:
		return msgForecastFailed, false
	default:
		return msgWeatherFailed, false
	}
}
