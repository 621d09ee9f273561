package discord

import (
	"github.com/bwmarrin/discordgo"
)

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func (b *Bot) respondMessage(s *discordgo.Session, i *discordgo.Interaction, msg string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   flags,
		},
	})
}

func (b *Bot) respondEmbed(s *discordgo.Session, i *discordgo.Interaction, embed *discordgo.MessageEmbed, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}

func commandOptions(i *discordgo.Interaction) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, opt := range i.ApplicationCommandData().Options {
		opts[opt.Name] = opt
	}
	return opts
}

// canManageRole reports whether the bot's highest role sits above the
// target role; Discord rejects grants of roles at or above it.
func (b *Bot) canManageRole(s *discordgo.Session, target *discordgo.Role) bool {
	guildRoles, err := s.GuildRoles(b.guildID)
	if err != nil {
		b.logger.Warn("Failed to list guild roles: %v", err)
		return true
	}

	positions := make(map[string]int, len(guildRoles))
	for _, role := range guildRoles {
		positions[role.ID] = role.Position
	}

	botMember, err := s.GuildMember(b.guildID, s.State.User.ID)
	if err != nil {
		b.logger.Warn("Failed to fetch bot member: %v", err)
		return true
	}

	highest := 0
	for _, roleID := range botMember.Roles {
		if pos := positions[roleID]; pos > highest {
			highest = pos
		}
	}

	return target.Position < highest
}
