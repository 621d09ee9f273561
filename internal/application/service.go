package application

import (
	"mcranksync/internal/models"
	"mcranksync/internal/repository"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// GuildRoles is the membership-management collaborator: the Discord guild
// the reconciler grants and revokes roles against.
type GuildRoles interface {
	MemberRoles(userID string) ([]string, error)
	AddRole(userID, roleID string) error
	RemoveRole(userID, roleID string) error
	RoleName(roleID string) string
}

type LinkService interface {
	GenerateLinkCode(discordID string) (string, error)
	LinkAccount(mcUUID, mcName, code string) (string, error)
	UnlinkByMcUUID(mcUUID string) (*models.PlayerLink, error)
	UnlinkByDiscordID(discordID string) (*models.PlayerLink, error)
	GetLinkByMcUUID(mcUUID string) (*models.PlayerLink, error)
	GetLinkByDiscordID(discordID string) (*models.PlayerLink, error)
	SweepExpiredCodes() (int64, error)
}

type MappingService interface {
	CreateMapping(mcRank, discordRoleID string) (bool, error)
	DeleteMapping(mcRank, discordRoleID string) error
	DeleteAllMappingsForRank(mcRank string) (int64, error)
	ListMappings() ([]models.RankMapping, error)
	MappedRanks() ([]string, error)
	RolesByRank(mcRank string) ([]string, error)
}

type SyncService interface {
	SyncRoles(discordID string, groups []string) (*SyncResult, error)
	RemoveAllManagedRoles(discordID string) []string
}

type Service struct {
	Links    LinkService
	Mappings MappingService
	Sync     SyncService
}

func NewService(repos *repository.Repository, guild GuildRoles, logger Logger) *Service {
	sync := NewSyncServiceImpl(repos.RankMapping, guild, logger)
	return &Service{
		Links:    NewLinkServiceImpl(repos.PlayerLink, repos.LinkCode, sync, logger),
		Mappings: NewMappingServiceImpl(repos.RankMapping, logger),
		Sync:     sync,
	}
}
