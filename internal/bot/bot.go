package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/i474232898/weather-bot/internal/roles"
	"github.com/i474232898/weather-bot/internal/weather"
)

// Session is the subset of *discordgo.Session the handlers use.
type Session interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// WeatherService is the part of *weather.Service the commands use.
type WeatherService interface {
	Current(ctx context.Context, query string) (weather.Report, error)
	Outlook(ctx context.Context, query string, days int) (weather.Report, error)
	Forecast(ctx context.Context, query string, days int) (weather.Coordinate, []weather.DailyObservation, error)
	Radar(ctx context.Context, query string) (weather.Coordinate, string, error)
}

// Config holds the bot settings.
type Config struct {
	Token          string
	AppID          string
	GuildID        string
	CommandTimeout time.Duration
	IconBaseURL    string
}

// Bot answers slash commands and role menu interactions.
type Bot struct {
	cfg        Config
	session    *discordgo.Session
	service    WeatherService
	policy     roles.Policy
	exclusions *roles.ExclusionLog

	mu        sync.RWMutex
	botUserID string
}

// New creates a Bot; call Open to connect.
func New(cfg Config, service WeatherService, policy roles.Policy, exclusions *roles.ExclusionLog) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := newBot(cfg, service, policy, exclusions)
	b.session = session
	return b, nil
}

func newBot(cfg Config, service WeatherService, policy roles.Policy, exclusions *roles.ExclusionLog) *Bot {
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 15 * time.Second
	}
	return &Bot{
		cfg:        cfg,
		service:    service,
		policy:     policy,
		exclusions: exclusions,
	}
}

// Open connects to the gateway and registers the slash commands.
func (b *Bot) Open() error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.setBotUserID(r.User.ID)
		log.Printf("INFO: logged in as %s#%s", r.User.Username, r.User.Discriminator)
	})
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handleInteraction(s, i)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	if b.session.State != nil && b.session.State.User != nil {
		b.setBotUserID(b.session.State.User.ID)
	}

	return RegisterCommands(b.session, b.cfg.AppID, b.cfg.GuildID)
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

func (b *Bot) setBotUserID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id != "" {
		b.botUserID = id
	}
}

func (b *Bot) selfID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.botUserID
}

func (b *Bot) handleInteraction(s Session, i *discordgo.InteractionCreate) {
	id := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: [%s] interaction handler panic: %v", id, r)
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		log.Printf("INFO: [%s] /%s from user %s in guild %q", id, data.Name, userID(i.Interaction), i.GuildID)

		switch data.Name {
		case cmdWeather, cmdForecast, cmdRadar:
			b.handleWeather(s, i, id, data)
		case cmdRoles:
			b.handleRolesCommand(s, i, id)
		default:
			log.Printf("INFO: [%s] ignoring unknown command %q", id, data.Name)
		}

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		log.Printf("DEBUG: [%s] component %q from user %s", id, data.CustomID, userID(i.Interaction))

		switch {
		case data.CustomID == roles.SelectID:
			b.handleRoleSelect(s, i, id, data)
		case roles.IsPageButton(data.CustomID):
			b.handleRolePage(s, i, id, data)
		}
	}
}

func userID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func reply(s Session, i *discordgo.Interaction, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}
