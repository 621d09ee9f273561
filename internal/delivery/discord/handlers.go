package discord

import (
	"errors"
	"fmt"
	"strings"

	"mcranksync/internal/application"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleLink(s *discordgo.Session, i *discordgo.Interaction) {
	user := interactionUser(i)

	existing, err := b.services.Links.GetLinkByDiscordID(user.ID)
	if err != nil {
		b.logger.Error("Failed to check existing link for %s: %v", user.ID, err)
		b.respondMessage(s, i, "An error occurred while generating your link code.", true)
		return
	}

	if existing != nil {
		embed := &discordgo.MessageEmbed{
			Color:       colorOrange,
			Title:       "Already Linked",
			Description: fmt.Sprintf("Your Discord account is already linked to **%s**.", existing.McName),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Minecraft UUID", Value: existing.McUUID, Inline: true},
				{Name: "Linked Since", Value: existing.LinkedAt.Format("2006-01-02"), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: "Use /unlink first if you want to link a different account."},
		}
		b.respondEmbed(s, i, embed, true)
		return
	}

	code, err := b.services.Links.GenerateLinkCode(user.ID)
	if err != nil {
		b.logger.Error("Failed to generate link code for %s: %v", user.ID, err)
		b.respondMessage(s, i, "An error occurred while generating your link code.", true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorGreen,
		Title:       "Link Your Account",
		Description: "Use the following code in Minecraft to link your account.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Link Code", Value: fmt.Sprintf("```%s```", code)},
			{Name: "Command", Value: fmt.Sprintf("```/mcranksync link %s```", code)},
			{Name: "Expires", Value: "This code expires in **10 minutes**."},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Run the command in-game on the Minecraft server."},
	}
	b.respondEmbed(s, i, embed, true)
}

func (b *Bot) handleUnlink(s *discordgo.Session, i *discordgo.Interaction) {
	user := interactionUser(i)

	link, err := b.services.Links.UnlinkByDiscordID(user.ID)
	if errors.Is(err, application.ErrLinkNotFound) {
		embed := &discordgo.MessageEmbed{
			Color:       colorRed,
			Title:       "Not Linked",
			Description: "Your Discord account is not linked to any Minecraft account.",
			Footer:      &discordgo.MessageEmbedFooter{Text: "Use /link to link your account."},
		}
		b.respondEmbed(s, i, embed, true)
		return
	}
	if err != nil {
		b.logger.Error("Failed to unlink %s: %v", user.ID, err)
		b.respondMessage(s, i, "An error occurred while unlinking your account.", true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorGreen,
		Title:       "Account Unlinked",
		Description: fmt.Sprintf("Your Discord account has been unlinked from **%s**.", link.McName),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Note", Value: "Any synced roles have been removed."},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "You can link a different account using /link."},
	}
	b.respondEmbed(s, i, embed, true)
}

func (b *Bot) handleMapRank(s *discordgo.Session, i *discordgo.Interaction) {
	opts := commandOptions(i)
	rank := opts["rank"].StringValue()
	role := opts["role"].RoleValue(s, b.guildID)

	if !b.canManageRole(s, role) {
		embed := &discordgo.MessageEmbed{
			Color:       colorRed,
			Title:       "Permission Error",
			Description: fmt.Sprintf("I cannot manage the role **%s** because it is higher than or equal to my highest role.", role.Name),
			Footer:      &discordgo.MessageEmbedFooter{Text: "Move my role above this role in the server settings."},
		}
		b.respondEmbed(s, i, embed, true)
		return
	}

	created, err := b.services.Mappings.CreateMapping(rank, role.ID)
	if err != nil {
		b.logger.Error("Failed to create rank mapping: %v", err)
		b.respondMessage(s, i, "An error occurred while creating the rank mapping.", true)
		return
	}

	if !created {
		embed := &discordgo.MessageEmbed{
			Color:       colorOrange,
			Title:       "Mapping Exists",
			Description: fmt.Sprintf("The rank **%s** is already mapped to <@&%s>.", rank, role.ID),
		}
		b.respondEmbed(s, i, embed, true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorGreen,
		Title:       "Rank Mapped",
		Description: "Successfully mapped Minecraft rank to Discord role.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Minecraft Rank", Value: fmt.Sprintf("`%s`", rank), Inline: true},
			{Name: "Discord Role", Value: fmt.Sprintf("<@&%s>", role.ID), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Players with this rank will now receive this role when synced."},
	}
	b.respondEmbed(s, i, embed, false)
}

func (b *Bot) handleUnmapRank(s *discordgo.Session, i *discordgo.Interaction) {
	opts := commandOptions(i)
	rank := opts["rank"].StringValue()

	if opt, ok := opts["role"]; ok {
		role := opt.RoleValue(s, b.guildID)

		err := b.services.Mappings.DeleteMapping(rank, role.ID)
		if errors.Is(err, application.ErrMappingNotFound) {
			embed := &discordgo.MessageEmbed{
				Color:       colorRed,
				Title:       "Mapping Not Found",
				Description: fmt.Sprintf("No mapping exists between rank **%s** and <@&%s>.", rank, role.ID),
			}
			b.respondEmbed(s, i, embed, true)
			return
		}
		if err != nil {
			b.logger.Error("Failed to remove rank mapping: %v", err)
			b.respondMessage(s, i, "An error occurred while removing the rank mapping.", true)
			return
		}

		embed := &discordgo.MessageEmbed{
			Color:       colorGreen,
			Title:       "Mapping Removed",
			Description: fmt.Sprintf("Removed mapping between **%s** and <@&%s>.", rank, role.ID),
		}
		b.respondEmbed(s, i, embed, false)
		return
	}

	count, err := b.services.Mappings.DeleteAllMappingsForRank(rank)
	if errors.Is(err, application.ErrMappingNotFound) {
		embed := &discordgo.MessageEmbed{
			Color:       colorRed,
			Title:       "No Mappings Found",
			Description: fmt.Sprintf("No mappings exist for rank **%s**.", rank),
		}
		b.respondEmbed(s, i, embed, true)
		return
	}
	if err != nil {
		b.logger.Error("Failed to remove rank mappings: %v", err)
		b.respondMessage(s, i, "An error occurred while removing the rank mapping.", true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorGreen,
		Title:       "Mappings Removed",
		Description: fmt.Sprintf("Removed **%d** mapping(s) for rank **%s**.", count, rank),
	}
	b.respondEmbed(s, i, embed, false)
}

func (b *Bot) handleUnmapRankAutocomplete(s *discordgo.Session, i *discordgo.Interaction) {
	var focused string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Focused {
			focused = strings.ToLower(opt.StringValue())
		}
	}

	ranks, err := b.services.Mappings.MappedRanks()
	if err != nil {
		b.logger.Error("Failed to load mapped ranks for autocomplete: %v", err)
		return
	}

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, rank := range ranks {
		if !strings.Contains(strings.ToLower(rank), focused) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: rank, Value: rank})
		if len(choices) == maxAutocompleteChoices {
			break
		}
	}

	s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

func (b *Bot) handleListMappings(s *discordgo.Session, i *discordgo.Interaction) {
	mappings, err := b.services.Mappings.ListMappings()
	if err != nil {
		b.logger.Error("Failed to list rank mappings: %v", err)
		b.respondMessage(s, i, "An error occurred while fetching the rank mappings.", true)
		return
	}

	if len(mappings) == 0 {
		embed := &discordgo.MessageEmbed{
			Color:       colorOrange,
			Title:       "Rank Mappings",
			Description: "No rank mappings have been configured yet.",
			Footer:      &discordgo.MessageEmbedFooter{Text: "Use /maprank to create a mapping."},
		}
		b.respondEmbed(s, i, embed, false)
		return
	}

	// Group role mentions under each rank, keeping the store's rank order.
	var ranks []string
	grouped := make(map[string][]string)
	for _, m := range mappings {
		if _, ok := grouped[m.McRank]; !ok {
			ranks = append(ranks, m.McRank)
		}
		grouped[m.McRank] = append(grouped[m.McRank], fmt.Sprintf("<@&%s>", m.DiscordRoleID))
	}

	var sb strings.Builder
	for _, rank := range ranks {
		sb.WriteString(fmt.Sprintf("**%s** → %s\n", rank, strings.Join(grouped[rank], ", ")))
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorBlurple,
		Title:       "Rank Mappings",
		Description: sb.String(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Mappings", Value: fmt.Sprintf("%d", len(mappings)), Inline: true},
			{Name: "Unique Ranks", Value: fmt.Sprintf("%d", len(ranks)), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Use /maprank to add or /unmaprank to remove mappings."},
	}
	b.respondEmbed(s, i, embed, false)
}

func (b *Bot) handleWhois(s *discordgo.Session, i *discordgo.Interaction) {
	user := commandOptions(i)["user"].UserValue(s)

	link, err := b.services.Links.GetLinkByDiscordID(user.ID)
	if err != nil {
		b.logger.Error("Failed to look up link for %s: %v", user.ID, err)
		b.respondMessage(s, i, "An error occurred while looking up the user.", true)
		return
	}

	if link == nil {
		embed := &discordgo.MessageEmbed{
			Color:       colorOrange,
			Title:       "User Lookup",
			Description: fmt.Sprintf("<@%s> is not linked to any Minecraft account.", user.ID),
			Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("64")},
		}
		b.respondEmbed(s, i, embed, false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorGreen,
		Title:       "User Lookup",
		Description: fmt.Sprintf("<@%s> is linked to a Minecraft account.", user.ID),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("64")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Minecraft Username", Value: link.McName, Inline: true},
			{Name: "Minecraft UUID", Value: fmt.Sprintf("`%s`", link.McUUID)},
			{Name: "Linked Since", Value: link.LinkedAt.Format("2006-01-02 15:04"), Inline: true},
		},
		Image: &discordgo.MessageEmbedImage{URL: fmt.Sprintf("https://mc-heads.net/avatar/%s/64", link.McUUID)},
	}
	b.respondEmbed(s, i, embed, false)
}
