package repository

import (
	"database/sql"
	"fmt"

	"mcranksync/internal/models"
)

type PlayerLinkPostgres struct {
	db *sql.DB
}

func NewPlayerLinkPostgres(db *sql.DB) *PlayerLinkPostgres {
	return &PlayerLinkPostgres{db: db}
}

// CreateLink upserts on mc_uuid: re-linking an already-linked player
// overwrites the name and Discord id instead of failing.
func (r *PlayerLinkPostgres) CreateLink(mcUUID, mcName, discordID string) error {
	_, err := r.db.Exec(`
		INSERT INTO player_links (mc_uuid, mc_name, discord_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (mc_uuid) DO UPDATE SET
			mc_name = EXCLUDED.mc_name,
			discord_id = EXCLUDED.discord_id,
			updated_at = NOW()
	`, mcUUID, mcName, discordID)

	if err != nil {
		return fmt.Errorf("failed to create player link: %w", err)
	}
	return nil
}

func (r *PlayerLinkPostgres) GetLinkByMcUUID(mcUUID string) (*models.PlayerLink, error) {
	var link models.PlayerLink
	err := r.db.QueryRow(`
		SELECT id, mc_uuid, mc_name, discord_id, linked_at, updated_at
		FROM player_links
		WHERE mc_uuid = $1
	`, mcUUID).Scan(
		&link.ID, &link.McUUID, &link.McName, &link.DiscordID,
		&link.LinkedAt, &link.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player link: %w", err)
	}
	return &link, nil
}

func (r *PlayerLinkPostgres) GetLinkByDiscordID(discordID string) (*models.PlayerLink, error) {
	var link models.PlayerLink
	err := r.db.QueryRow(`
		SELECT id, mc_uuid, mc_name, discord_id, linked_at, updated_at
		FROM player_links
		WHERE discord_id = $1
	`, discordID).Scan(
		&link.ID, &link.McUUID, &link.McName, &link.DiscordID,
		&link.LinkedAt, &link.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player link: %w", err)
	}
	return &link, nil
}

func (r *PlayerLinkPostgres) DeleteLinkByMcUUID(mcUUID string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM player_links WHERE mc_uuid = $1`, mcUUID)
	if err != nil {
		return false, fmt.Errorf("failed to delete player link: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *PlayerLinkPostgres) DeleteLinkByDiscordID(discordID string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM player_links WHERE discord_id = $1`, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to delete player link: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *PlayerLinkPostgres) GetAllLinks() ([]models.PlayerLink, error) {
	rows, err := r.db.Query(`
		SELECT id, mc_uuid, mc_name, discord_id, linked_at, updated_at
		FROM player_links
		ORDER BY linked_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list player links: %w", err)
	}
	defer rows.Close()

	var links []models.PlayerLink
	for rows.Next() {
		var link models.PlayerLink
		if err := rows.Scan(
			&link.ID, &link.McUUID, &link.McName, &link.DiscordID,
			&link.LinkedAt, &link.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
