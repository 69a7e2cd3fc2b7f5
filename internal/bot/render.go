package bot

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/i474232898/weather-bot/internal/roles"
	"github.com/i474232898/weather-bot/internal/weather"
)

const embedColor = 0x0099ff

// WeatherEmbed renders the current observation.
func WeatherEmbed(r weather.Report, iconBaseURL string) *discordgo.MessageEmbed {
	o := r.Observation
	u := o.Units

	embed := &discordgo.MessageEmbed{
		Title: "Weather Information",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			inline("Location", r.Location.Label),
			inline("Weather Description", o.Description),
			inline("Temperature", num(o.Temperature)+unit(u.Temperature, "°C")),
			inline("Wind Speed", num(o.WindSpeed)+" "+unit(u.WindSpeed, "km/h")),
			inline("Wind Direction", num(o.WindDirection)+unit(u.WindDirection, "°")),
			inline("Humidity", num(o.Humidity)+unit(u.Humidity, "%")),
			inline("Pressure at Sea Level", num(o.Pressure)+unit(u.Pressure, "hPa")),
			inline("Cloudiness", num(o.CloudCover)+unit(u.CloudCover, "%")),
		},
	}
	if !o.Instant.IsZero() {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Observed " + o.Instant.Format("2006-01-02 15:04 MST"),
		}
	}
	if icon := weather.IconURL(iconBaseURL, o.Icon); icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: icon}
	}
	if r.RadarURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: r.RadarURL}
	}
	return embed
}

// ForecastEmbed renders one field per forecast day.
func ForecastEmbed(loc weather.Coordinate, days []weather.DailyObservation) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Forecast",
		Description: loc.Label,
		Color:       embedColor,
	}
	for _, d := range days {
		temp := unit(d.Units.Temperature, "°C")
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: d.Date.Format("Mon Jan 2"),
			Value: fmt.Sprintf("High %s%s / Low %s%s\nPrecipitation %s%s",
				num(d.TemperatureMax), temp,
				num(d.TemperatureMin), temp,
				num(d.PrecipitationProbability), unit(d.Units.Precipitation, "%")),
		})
	}
	return embed
}

// RadarEmbed renders a precipitation tile.
func RadarEmbed(loc weather.Coordinate, tileURL string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Weather Radar",
		Description: "Precipitation around " + loc.Label,
		Color:       embedColor,
		Image:       &discordgo.MessageEmbedImage{URL: tileURL},
	}
}

// RoleMenuContent is the message text above the role menu.
func RoleMenuContent(page roles.Page) string {
	return fmt.Sprintf("**Available Roles** (%d total)", page.Total)
}

// RoleMenu renders a select menu for page plus prev/next buttons.
func RoleMenu(page roles.Page, memberRoleIDs []string) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(page.Roles))
	for _, role := range page.Roles {
		opt := discordgo.SelectMenuOption{
			Label: role.Name,
			Value: role.ID,
		}
		if roles.HasRole(memberRoleIDs, role.ID) {
			opt.Description = "You have this role; select to remove it"
		}
		options = append(options, opt)
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    roles.SelectID,
				Placeholder: fmt.Sprintf("Select roles (Page %d/%d)", page.Index+1, page.TotalPages),
				Options:     options,
			},
		}},
	}

	var buttons []discordgo.MessageComponent
	if page.HasPrev() {
		buttons = append(buttons, discordgo.Button{
			Label:    "Previous",
			Style:    discordgo.SecondaryButton,
			CustomID: roles.PrevID(page.Index),
		})
	}
	if page.HasNext() {
		buttons = append(buttons, discordgo.Button{
			Label:    "Next",
			Style:    discordgo.PrimaryButton,
			CustomID: roles.NextID(page.Index),
		})
	}
	if len(buttons) > 0 {
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}
	return components
}

func inline(name, value string) *discordgo.MessageEmbedField {
	if value == "" {
		value = "-"
	}
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func unit(u, def string) string {
	if u == "" {
		return def
	}
	return u
}
