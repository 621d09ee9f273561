package discord

import (
	"context"

	"mcranksync/internal/application"
	"mcranksync/pkg/config"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	session  *discordgo.Session
	services *application.Service
	logger   application.Logger
	guildID  string
}

func NewBot(cfg *config.Config, logger application.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	return &Bot{
		session: s,
		logger:  logger,
		guildID: cfg.DiscordGuildID,
	}, nil
}

// SetServices wires the application layer in after construction; the
// services themselves need the bot's guild adapter, so they are built
// between NewBot and Init.
func (b *Bot) SetServices(services *application.Service) {
	b.services = services
}

// RoleManager exposes the guild as the reconciler's membership collaborator.
func (b *Bot) RoleManager() *GuildRoleManager {
	return NewGuildRoleManager(b.session, b.guildID)
}

func (b *Bot) Init() error {
	b.session.AddHandler(b.onInteraction)
	return nil
}

func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return err
	}

	b.logger.Info("Discord bot started. Registering slash commands...")

	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, commands())
	if err != nil {
		b.logger.Error("Failed to register commands: %v", err)
	} else {
		b.logger.Info("Slash commands registered successfully")
	}

	return nil
}

func (b *Bot) Stop() {
	b.session.Close()
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		if i.ApplicationCommandData().Name == "unmaprank" {
			b.handleUnmapRankAutocomplete(s, i.Interaction)
		}
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(s, i.Interaction)
	}
}

func (b *Bot) dispatchCommand(s *discordgo.Session, i *discordgo.Interaction) {
	name := i.ApplicationCommandData().Name
	b.logger.Info("Executing command: %s by %s", name, interactionUser(i).ID)

	switch name {
	case "link":
		b.handleLink(s, i)
	case "unlink":
		b.handleUnlink(s, i)
	case "maprank":
		b.handleMapRank(s, i)
	case "unmaprank":
		b.handleUnmapRank(s, i)
	case "listmappings":
		b.handleListMappings(s, i)
	case "whois":
		b.handleWhois(s, i)
	default:
		b.logger.Warn("Unknown command: %s", name)
	}
}
