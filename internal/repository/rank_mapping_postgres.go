package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"mcranksync/internal/models"
)

type RankMappingPostgres struct {
	db *sql.DB
}

func NewRankMappingPostgres(db *sql.DB) *RankMappingPostgres {
	return &RankMappingPostgres{db: db}
}

// CreateMapping stores the rank lowercased; a duplicate pair is a no-op.
func (r *RankMappingPostgres) CreateMapping(mcRank, discordRoleID string) error {
	_, err := r.db.Exec(`
		INSERT INTO rank_mappings (mc_rank, discord_role_id)
		VALUES ($1, $2)
		ON CONFLICT (mc_rank, discord_role_id) DO NOTHING
	`, strings.ToLower(mcRank), discordRoleID)

	if err != nil {
		return fmt.Errorf("failed to create rank mapping: %w", err)
	}
	return nil
}

func (r *RankMappingPostgres) GetRolesByRank(mcRank string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT discord_role_id FROM rank_mappings WHERE mc_rank = $1
	`, strings.ToLower(mcRank))
	if err != nil {
		return nil, fmt.Errorf("failed to get roles by rank: %w", err)
	}
	defer rows.Close()

	var roleIDs []string
	for rows.Next() {
		var roleID string
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("failed to scan role id: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}
	return roleIDs, rows.Err()
}

func (r *RankMappingPostgres) GetAllMappings() ([]models.RankMapping, error) {
	rows, err := r.db.Query(`
		SELECT id, mc_rank, discord_role_id, created_at
		FROM rank_mappings
		ORDER BY mc_rank
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rank mappings: %w", err)
	}
	defer rows.Close()

	var mappings []models.RankMapping
	for rows.Next() {
		var m models.RankMapping
		if err := rows.Scan(&m.ID, &m.McRank, &m.DiscordRoleID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rank mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (r *RankMappingPostgres) DeleteMapping(mcRank, discordRoleID string) (bool, error) {
	result, err := r.db.Exec(`
		DELETE FROM rank_mappings WHERE mc_rank = $1 AND discord_role_id = $2
	`, strings.ToLower(mcRank), discordRoleID)
	if err != nil {
		return false, fmt.Errorf("failed to delete rank mapping: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *RankMappingPostgres) DeleteAllMappingsForRank(mcRank string) (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM rank_mappings WHERE mc_rank = $1
	`, strings.ToLower(mcRank))
	if err != nil {
		return 0, fmt.Errorf("failed to delete rank mappings: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *RankMappingPostgres) GetMappedRanks() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT mc_rank FROM rank_mappings ORDER BY mc_rank`)
	if err != nil {
		return nil, fmt.Errorf("failed to get mapped ranks: %w", err)
	}
	defer rows.Close()

	var ranks []string
	for rows.Next() {
		var rank string
		if err := rows.Scan(&rank); err != nil {
			return nil, fmt.Errorf("failed to scan rank: %w", err)
		}
		ranks = append(ranks, rank)
	}
	return ranks, rows.Err()
}
