package bot

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/i474232898/weather-bot/internal/weather"
)

// handleWeather serves /weather, /forecast and /radar. Blank input is
// answered immediately; everything else is deferred and edited in place.
func (b *Bot) handleWeather(s Session, i *discordgo.InteractionCreate, id string, data discordgo.ApplicationCommandInteractionData) {
	var (
		location     string
		withForecast bool
	)
	for _, opt := range data.Options {
		switch {
		case opt.Name == optLocation && opt.Type == discordgo.ApplicationCommandOptionString:
			location = opt.StringValue()
		case opt.Name == optForecast && opt.Type == discordgo.ApplicationCommandOptionBoolean:
			withForecast = opt.BoolValue()
		}
	}

	if strings.TrimSpace(location) == "" {
		if err := reply(s, i.Interaction, msgNoLocation, false); err != nil {
			log.Printf("ERROR: [%s] reply failed: %v", id, err)
		}
		return
	}

	deferred := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if data.Name == cmdRadar {
		deferred.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	if err := s.InteractionRespond(i.Interaction, deferred); err != nil {
		log.Printf("ERROR: [%s] defer failed: %v", id, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.CommandTimeout)
	defer cancel()

	embeds, err := b.lookup(ctx, data.Name, location, withForecast)

	edit := &discordgo.WebhookEdit{}
	if err != nil {
		msg, expected := userMessage(data.Name, err)
		if expected {
			log.Printf("INFO: [%s] /%s %q: %v", id, data.Name, location, err)
		} else {
			log.Printf("ERROR: [%s] /%s %q: %v", id, data.Name, location, err)
		}
		edit.Content = &msg
	} else {
		edit.Embeds = &embeds
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		log.Printf("ERROR: [%s] edit response failed: %v", id, err)
	}
}

func (b *Bot) lookup(ctx context.Context, command, location string, withForecast bool) ([]*discordgo.MessageEmbed, error) {
	switch command {
	case cmdForecast:
		coord, days, err := b.service.Forecast(ctx, location, 0)
		if err != nil {
			return nil, err
		}
		return []*discordgo.MessageEmbed{ForecastEmbed(coord, days)}, nil

	case cmdRadar:
		coord, tile, err := b.service.Radar(ctx, location)
		if err != nil {
			return nil, err
		}
		return []*discordgo.MessageEmbed{RadarEmbed(coord, tile)}, nil

	default:
		var (
			report weather.Report
			err    error
		)
		if withForecast {
			report, err = b.service.Outlook(ctx, location, 0)
		} else {
			report, err = b.service.Current(ctx, location)
		}
		if err != nil {
			return nil, err
		}

		embeds := []*discordgo.MessageEmbed{WeatherEmbed(report, b.cfg.IconBaseURL)}
		if len(report.Forecast) > 0 {
			embeds = append(embeds, ForecastEmbed(report.Location, report.Forecast))
		}
		return embeds, nil
	}
}
