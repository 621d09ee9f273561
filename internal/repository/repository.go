package repository

import (
	"database/sql"

	"mcranksync/internal/models"
)

type PlayerLink interface {
	CreateLink(mcUUID, mcName, discordID string) error
	GetLinkByMcUUID(mcUUID string) (*models.PlayerLink, error)
	GetLinkByDiscordID(discordID string) (*models.PlayerLink, error)
	DeleteLinkByMcUUID(mcUUID string) (bool, error)
	DeleteLinkByDiscordID(discordID string) (bool, error)
	GetAllLinks() ([]models.PlayerLink, error)
}

type RankMapping interface {
	CreateMapping(mcRank, discordRoleID string) error
	GetRolesByRank(mcRank string) ([]string, error)
	GetAllMappings() ([]models.RankMapping, error)
	DeleteMapping(mcRank, discordRoleID string) (bool, error)
	DeleteAllMappingsForRank(mcRank string) (int64, error)
	GetMappedRanks() ([]string, error)
}

type LinkCode interface {
	CreateLinkCode(discordID string) (string, error)
	RedeemLinkCode(code string) (string, error)
	SweepExpiredCodes() (int64, error)
}

type Repository struct {
	PlayerLink
	RankMapping
	LinkCode
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		PlayerLink:  NewPlayerLinkPostgres(db),
		RankMapping: NewRankMappingPostgres(db),
		LinkCode:    NewLinkCodePostgres(db),
		db:          db,
	}
}
