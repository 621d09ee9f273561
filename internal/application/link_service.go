package application

import (
	"fmt"

	"mcranksync/internal/models"
	"mcranksync/internal/repository"
)

type LinkServiceImpl struct {
	linkRepo repository.PlayerLink
	codeRepo repository.LinkCode
	sync     SyncService
	logger   Logger
}

func NewLinkServiceImpl(linkRepo repository.PlayerLink, codeRepo repository.LinkCode, sync SyncService, logger Logger) *LinkServiceImpl {
	return &LinkServiceImpl{
		linkRepo: linkRepo,
		codeRepo: codeRepo,
		sync:     sync,
		logger:   logger,
	}
}

// GenerateLinkCode issues a fresh code for a Discord account that is not
// linked yet. Issuing again before redemption replaces the previous code.
func (s *LinkServiceImpl) GenerateLinkCode(discordID string) (string, error) {
	existing, err := s.linkRepo.GetLinkByDiscordID(discordID)
	if err != nil {
		return "", fmt.Errorf("failed to check existing link: %w", err)
	}
	if existing != nil {
		return "", ErrAlreadyLinked
	}

	code, err := s.codeRepo.CreateLinkCode(discordID)
	if err != nil {
		return "", err
	}

	s.logger.Info("Generated link code for Discord user %s", discordID)
	return code, nil
}

// LinkAccount redeems a code on behalf of a Minecraft player and records the
// link. The code is consumed exactly once; a second redemption fails with
// ErrCodeInvalid. Linking a uuid already bound to a different Discord
// account is rejected with ErrAlreadyLinked.
func (s *LinkServiceImpl) LinkAccount(mcUUID, mcName, code string) (string, error) {
	discordID, err := s.codeRepo.RedeemLinkCode(code)
	if err != nil {
		return "", err
	}
	if discordID == "" {
		return "", ErrCodeInvalid
	}

	existing, err := s.linkRepo.GetLinkByMcUUID(mcUUID)
	if err != nil {
		return "", fmt.Errorf("failed to check existing link: %w", err)
	}
	if existing != nil && existing.DiscordID != discordID {
		s.logger.Warn("Minecraft account %s is already linked to another Discord account", mcUUID)
		return "", ErrAlreadyLinked
	}

	if err := s.linkRepo.CreateLink(mcUUID, mcName, discordID); err != nil {
		return "", err
	}

	s.logger.Info("Linked %s (%s) to Discord user %s", mcName, mcUUID, discordID)
	return discordID, nil
}

// UnlinkByMcUUID removes the link for a Minecraft account. Managed roles
// are revoked first; partial revoke failures do not stop the deletion.
func (s *LinkServiceImpl) UnlinkByMcUUID(mcUUID string) (*models.PlayerLink, error) {
	link, err := s.linkRepo.GetLinkByMcUUID(mcUUID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}

	s.sync.RemoveAllManagedRoles(link.DiscordID)

	if _, err := s.linkRepo.DeleteLinkByMcUUID(mcUUID); err != nil {
		return nil, err
	}

	s.logger.Info("Unlinked Minecraft account %s", mcUUID)
	return link, nil
}

// UnlinkByDiscordID is the Discord-side unlink, same cleanup order.
func (s *LinkServiceImpl) UnlinkByDiscordID(discordID string) (*models.PlayerLink, error) {
	link, err := s.linkRepo.GetLinkByDiscordID(discordID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}

	s.sync.RemoveAllManagedRoles(discordID)

	if _, err := s.linkRepo.DeleteLinkByDiscordID(discordID); err != nil {
		return nil, err
	}

	s.logger.Info("Unlinked Discord user %s from %s", discordID, link.McName)
	return link, nil
}

func (s *LinkServiceImpl) GetLinkByMcUUID(mcUUID string) (*models.PlayerLink, error) {
	return s.linkRepo.GetLinkByMcUUID(mcUUID)
}

func (s *LinkServiceImpl) GetLinkByDiscordID(discordID string) (*models.PlayerLink, error) {
	return s.linkRepo.GetLinkByDiscordID(discordID)
}

func (s *LinkServiceImpl) SweepExpiredCodes() (int64, error) {
	count, err := s.codeRepo.SweepExpiredCodes()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Debug("Cleaned up %d expired link codes", count)
	}
	return count, nil
}
