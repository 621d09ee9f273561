package models

import "time"

// PlayerLink binds one Minecraft account to one Discord account.
// The relation is a bijection: mc_uuid and discord_id are both unique.
type PlayerLink struct {
	ID        int       `json:"id"`
	McUUID    string    `json:"mc_uuid"`
	McName    string    `json:"mc_name"`
	DiscordID string    `json:"discord_id"`
	LinkedAt  time.Time `json:"linked_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RankMapping associates a Minecraft permission group with a Discord role.
// mc_rank is stored lowercased; the (mc_rank, discord_role_id) pair is unique.
type RankMapping struct {
	ID            int       `json:"id"`
	McRank        string    `json:"mc_rank"`
	DiscordRoleID string    `json:"discord_role_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// LinkCode is a single-use code binding a Discord account to a pending link.
type LinkCode struct {
	Code      string    `json:"code"`
	DiscordID string    `json:"discord_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
