package discord

import "github.com/bwmarrin/discordgo"

// GuildRoleManager adapts a Discord guild to the reconciler's
// membership-management interface.
type GuildRoleManager struct {
	session *discordgo.Session
	guildID string
}

func NewGuildRoleManager(session *discordgo.Session, guildID string) *GuildRoleManager {
	return &GuildRoleManager{
		session: session,
		guildID: guildID,
	}
}

func (g *GuildRoleManager) MemberRoles(userID string) ([]string, error) {
	member, err := g.session.GuildMember(g.guildID, userID)
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

func (g *GuildRoleManager) AddRole(userID, roleID string) error {
	return g.session.GuildMemberRoleAdd(g.guildID, userID, roleID)
}

func (g *GuildRoleManager) RemoveRole(userID, roleID string) error {
	return g.session.GuildMemberRoleRemove(g.guildID, userID, roleID)
}

// RoleName resolves a role's display name from the session state, falling
// back to the raw id when the role is not cached.
func (g *GuildRoleManager) RoleName(roleID string) string {
	role, err := g.session.State.Role(g.guildID, roleID)
	if err != nil || role == nil {
		return roleID
	}
	return role.Name
}
