package discord

import "github.com/bwmarrin/discordgo"

// Admin commands are hidden behind the guild's Administrator permission,
// matching the plugin-side expectation that rank mappings are operator-only.
var adminPermission = int64(discordgo.PermissionAdministrator)

func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "link",
			Description: "Link your Discord account to your Minecraft account",
		},
		{
			Name:        "unlink",
			Description: "Unlink your Discord account from your Minecraft account",
		},
		{
			Name:                     "maprank",
			Description:              "Map a Minecraft rank to a Discord role",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "rank", Description: "The Minecraft rank name (from LuckPerms)", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "The Discord role to assign", Required: true},
			},
		},
		{
			Name:                     "unmaprank",
			Description:              "Remove a Minecraft rank to Discord role mapping",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "rank", Description: "The Minecraft rank name", Required: true, Autocomplete: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "The Discord role (leave empty to remove all mappings for this rank)", Required: false},
			},
		},
		{
			Name:                     "listmappings",
			Description:              "List all Minecraft rank to Discord role mappings",
			DefaultMemberPermissions: &adminPermission,
		},
		{
			Name:                     "whois",
			Description:              "Look up the Minecraft account linked to a Discord user",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "The Discord user to look up", Required: true},
			},
		},
	}
}
