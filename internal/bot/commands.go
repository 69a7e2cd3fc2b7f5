package bot

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Command and option names.
const (
	cmdWeather  = "weather"
	cmdForecast = "forecast"
	cmdRadar    = "radar"
	cmdRoles    = "roles"

	optLocation = "location"
	optForecast = "forecast"
)

// Commands returns the slash command definitions.
func Commands() []*discordgo.ApplicationCommand {
	location := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optLocation,
			Description: desc,
			Required:    true,
		}
	}
	guildOnly := false

	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdWeather,
			Description: "Get the weather information for a location",
			Options: []*discordgo.ApplicationCommandOption{
				location("The location to get the weather information for"),
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        optForecast,
					Description: "Include the daily forecast",
				},
			},
		},
		{
			Name:        cmdForecast,
			Description: "Get the daily forecast for a location",
			Options: []*discordgo.ApplicationCommandOption{
				location("The location to get the forecast for"),
			},
		},
		{
			Name:        cmdRadar,
			Description: "Get the precipitation radar for a location",
			Options: []*discordgo.ApplicationCommandOption{
				location("The location to get the radar image for"),
			},
		},
		{
			Name:         cmdRoles,
			Description:  "Pick roles for yourself",
			DMPermission: &guildOnly,
		},
	}
}

// RegisterCommands replaces the application's commands in one call. An empty
// guildID registers them globally.
func RegisterCommands(s Session, appID, guildID string) error {
	scope := "global"
	if guildID != "" {
		scope = "guild " + guildID
	}
	log.Printf("INFO: refreshing %s application (/) commands", scope)

	registered, err := s.ApplicationCommandBulkOverwrite(appID, guildID, Commands())
	if err != nil {
		return fmt.Errorf("register %s commands: %w", scope, err)
	}

	log.Printf("INFO: registered %d %s application (/) commands", len(registered), scope)
	return nil
}
