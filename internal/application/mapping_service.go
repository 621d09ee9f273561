package application

import (
	"mcranksync/internal/models"
	"mcranksync/internal/repository"
)

type MappingServiceImpl struct {
	mappingRepo repository.RankMapping
	logger      Logger
}

func NewMappingServiceImpl(mappingRepo repository.RankMapping, logger Logger) *MappingServiceImpl {
	return &MappingServiceImpl{
		mappingRepo: mappingRepo,
		logger:      logger,
	}
}

// CreateMapping adds a rank→role pair. Returns false when the pair already
// exists; storing it twice is not an error.
func (s *MappingServiceImpl) CreateMapping(mcRank, discordRoleID string) (bool, error) {
	existing, err := s.mappingRepo.GetRolesByRank(mcRank)
	if err != nil {
		return false, err
	}
	for _, id := range existing {
		if id == discordRoleID {
			return false, nil
		}
	}

	if err := s.mappingRepo.CreateMapping(mcRank, discordRoleID); err != nil {
		return false, err
	}

	s.logger.Info("Mapped rank %q to role %s", mcRank, discordRoleID)
	return true, nil
}

func (s *MappingServiceImpl) DeleteMapping(mcRank, discordRoleID string) error {
	deleted, err := s.mappingRepo.DeleteMapping(mcRank, discordRoleID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMappingNotFound
	}

	s.logger.Info("Removed mapping %q -> %s", mcRank, discordRoleID)
	return nil
}

func (s *MappingServiceImpl) DeleteAllMappingsForRank(mcRank string) (int64, error) {
	count, err := s.mappingRepo.DeleteAllMappingsForRank(mcRank)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrMappingNotFound
	}

	s.logger.Info("Removed %d mapping(s) for rank %q", count, mcRank)
	return count, nil
}

func (s *MappingServiceImpl) ListMappings() ([]models.RankMapping, error) {
	return s.mappingRepo.GetAllMappings()
}

func (s *MappingServiceImpl) MappedRanks() ([]string, error) {
	return s.mappingRepo.GetMappedRanks()
}

func (s *MappingServiceImpl) RolesByRank(mcRank string) ([]string, error) {
	return s.mappingRepo.GetRolesByRank(mcRank)
}
