package application

import (
	"fmt"
	"sort"

	"mcranksync/internal/repository"
)

// SyncResult reports the role changes a sync attempted. Individual grant or
// revoke failures are logged and skipped, so the lists are best-effort
// telemetry rather than a transactional guarantee. Success is false only for
// structural failures (the member could not be resolved in the guild).
type SyncResult struct {
	Success bool
	Message string
	Added   []string
	Removed []string
}

type SyncServiceImpl struct {
	mappingRepo repository.RankMapping
	guild       GuildRoles
	logger      Logger
}

func NewSyncServiceImpl(mappingRepo repository.RankMapping, guild GuildRoles, logger Logger) *SyncServiceImpl {
	return &SyncServiceImpl{
		mappingRepo: mappingRepo,
		guild:       guild,
		logger:      logger,
	}
}

// SyncRoles moves a member from its current mapped-role set to the set
// implied by its Minecraft groups. Only roles appearing in a rank mapping
// are ever touched; the member's unrelated roles are preserved.
func (s *SyncServiceImpl) SyncRoles(discordID string, groups []string) (*SyncResult, error) {
	managed, err := s.managedRoleIDs()
	if err != nil {
		return nil, err
	}

	target := make(map[string]struct{})
	for _, group := range groups {
		roleIDs, err := s.mappingRepo.GetRolesByRank(group)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve roles for group %q: %w", group, err)
		}
		for _, id := range roleIDs {
			target[id] = struct{}{}
		}
	}

	memberRoles, err := s.guild.MemberRoles(discordID)
	if err != nil {
		s.logger.Warn("Discord member %s not found in guild: %v", discordID, err)
		return &SyncResult{Success: false, Message: "Discord member not found in guild"}, nil
	}

	current := make(map[string]struct{})
	for _, id := range memberRoles {
		if _, ok := managed[id]; ok {
			current[id] = struct{}{}
		}
	}

	toAdd := setDifference(target, current)
	toRemove := setDifference(current, target)

	result := &SyncResult{
		Success: true,
		Added:   s.applyRoleChanges(discordID, toAdd, "add", s.guild.AddRole),
		Removed: s.applyRoleChanges(discordID, toRemove, "remove", s.guild.RemoveRole),
	}

	if len(result.Added) > 0 || len(result.Removed) > 0 {
		result.Message = fmt.Sprintf("Roles updated: +%d -%d", len(result.Added), len(result.Removed))
	} else {
		result.Message = "No role changes needed"
	}

	return result, nil
}

// RemoveAllManagedRoles revokes every mapped role the member currently
// holds, used when an account is unlinked. Best-effort: failures are logged
// and the rest of the batch continues.
func (s *SyncServiceImpl) RemoveAllManagedRoles(discordID string) []string {
	managed, err := s.managedRoleIDs()
	if err != nil {
		s.logger.Error("Failed to load rank mappings for role removal: %v", err)
		return nil
	}

	memberRoles, err := s.guild.MemberRoles(discordID)
	if err != nil {
		s.logger.Warn("Discord member %s not found in guild for role removal: %v", discordID, err)
		return nil
	}

	var held []string
	for _, id := range memberRoles {
		if _, ok := managed[id]; ok {
			held = append(held, id)
		}
	}
	sort.Strings(held)

	removed := s.applyRoleChanges(discordID, held, "remove", s.guild.RemoveRole)
	s.logger.Info("Removed %d synced roles from %s", len(removed), discordID)
	return removed
}

func (s *SyncServiceImpl) managedRoleIDs() (map[string]struct{}, error) {
	mappings, err := s.mappingRepo.GetAllMappings()
	if err != nil {
		return nil, fmt.Errorf("failed to load rank mappings: %w", err)
	}

	managed := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		managed[m.DiscordRoleID] = struct{}{}
	}
	return managed, nil
}

// applyRoleChanges applies one change per role and folds the outcomes into
// the list of role names that actually went through.
func (s *SyncServiceImpl) applyRoleChanges(discordID string, roleIDs []string, verb string, apply func(userID, roleID string) error) []string {
	var applied []string
	for _, roleID := range roleIDs {
		if err := apply(discordID, roleID); err != nil {
			s.logger.Error("Failed to %s role %s for %s: %v", verb, roleID, discordID, err)
			continue
		}
		name := s.guild.RoleName(roleID)
		applied = append(applied, name)
		s.logger.Debug("Role %s (%s): %s for %s", name, roleID, verb, discordID)
	}
	return applied
}

func setDifference(a, b map[string]struct{}) []string {
	var diff []string
	for id := range a {
		if _, ok := b[id]; !ok {
			diff = append(diff, id)
		}
	}
	sort.Strings(diff)
	return diff
}
