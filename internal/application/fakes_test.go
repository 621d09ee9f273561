package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"mcranksync/internal/models"
)

type testLogger struct{}

func (testLogger) Error(format string, v ...interface{}) {}
func (testLogger) Warn(format string, v ...interface{})  {}
func (testLogger) Info(format string, v ...interface{})  {}
func (testLogger) Debug(format string, v ...interface{}) {}

// fakePlayerLinkRepo mirrors the Postgres upsert/uniqueness semantics in
// memory and records mutations in an optional event log.
type fakePlayerLinkRepo struct {
	byUUID map[string]models.PlayerLink
	events *[]string
}

func newFakePlayerLinkRepo() *fakePlayerLinkRepo {
	return &fakePlayerLinkRepo{byUUID: make(map[string]models.PlayerLink)}
}

func (f *fakePlayerLinkRepo) CreateLink(mcUUID, mcName, discordID string) error {
	now := time.Now()
	if link, ok := f.byUUID[mcUUID]; ok {
		link.McName = mcName
		link.DiscordID = discordID
		link.UpdatedAt = now
		f.byUUID[mcUUID] = link
	} else {
		f.byUUID[mcUUID] = models.PlayerLink{
			McUUID:    mcUUID,
			McName:    mcName,
			DiscordID: discordID,
			LinkedAt:  now,
			UpdatedAt: now,
		}
	}
	return nil
}

func (f *fakePlayerLinkRepo) GetLinkByMcUUID(mcUUID string) (*models.PlayerLink, error) {
	if link, ok := f.byUUID[mcUUID]; ok {
		return &link, nil
	}
	return nil, nil
}

func (f *fakePlayerLinkRepo) GetLinkByDiscordID(discordID string) (*models.PlayerLink, error) {
	for _, link := range f.byUUID {
		if link.DiscordID == discordID {
			return &link, nil
		}
	}
	return nil, nil
}

func (f *fakePlayerLinkRepo) DeleteLinkByMcUUID(mcUUID string) (bool, error) {
	if f.events != nil {
		*f.events = append(*f.events, "delete-link:"+mcUUID)
	}
	if _, ok := f.byUUID[mcUUID]; !ok {
		return false, nil
	}
	delete(f.byUUID, mcUUID)
	return true, nil
}

func (f *fakePlayerLinkRepo) DeleteLinkByDiscordID(discordID string) (bool, error) {
	for uuid, link := range f.byUUID {
		if link.DiscordID == discordID {
			if f.events != nil {
				*f.events = append(*f.events, "delete-link:"+uuid)
			}
			delete(f.byUUID, uuid)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePlayerLinkRepo) GetAllLinks() ([]models.PlayerLink, error) {
	var links []models.PlayerLink
	for _, link := range f.byUUID {
		links = append(links, link)
	}
	return links, nil
}

// fakeRankMappingRepo lowercases ranks at write time like the Postgres
// implementation and enforces pair uniqueness.
type fakeRankMappingRepo struct {
	mappings []models.RankMapping
	nextID   int
}

func (f *fakeRankMappingRepo) CreateMapping(mcRank, discordRoleID string) error {
	rank := strings.ToLower(mcRank)
	for _, m := range f.mappings {
		if m.McRank == rank && m.DiscordRoleID == discordRoleID {
			return nil
		}
	}
	f.nextID++
	f.mappings = append(f.mappings, models.RankMapping{
		ID:            f.nextID,
		McRank:        rank,
		DiscordRoleID: discordRoleID,
		CreatedAt:     time.Now(),
	})
	return nil
}

func (f *fakeRankMappingRepo) GetRolesByRank(mcRank string) ([]string, error) {
	rank := strings.ToLower(mcRank)
	var roleIDs []string
	for _, m := range f.mappings {
		if m.McRank == rank {
			roleIDs = append(roleIDs, m.DiscordRoleID)
		}
	}
	return roleIDs, nil
}

func (f *fakeRankMappingRepo) GetAllMappings() ([]models.RankMapping, error) {
	return append([]models.RankMapping(nil), f.mappings...), nil
}

func (f *fakeRankMappingRepo) DeleteMapping(mcRank, discordRoleID string) (bool, error) {
	rank := strings.ToLower(mcRank)
	for idx, m := range f.mappings {
		if m.McRank == rank && m.DiscordRoleID == discordRoleID {
			f.mappings = append(f.mappings[:idx], f.mappings[idx+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRankMappingRepo) DeleteAllMappingsForRank(mcRank string) (int64, error) {
	rank := strings.ToLower(mcRank)
	var kept []models.RankMapping
	var removed int64
	for _, m := range f.mappings {
		if m.McRank == rank {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	f.mappings = kept
	return removed, nil
}

func (f *fakeRankMappingRepo) GetMappedRanks() ([]string, error) {
	seen := make(map[string]struct{})
	var ranks []string
	for _, m := range f.mappings {
		if _, ok := seen[m.McRank]; ok {
			continue
		}
		seen[m.McRank] = struct{}{}
		ranks = append(ranks, m.McRank)
	}
	sort.Strings(ranks)
	return ranks, nil
}

type codeEntry struct {
	discordID string
	expiresAt time.Time
}

// fakeLinkCodeRepo issues deterministic codes and honors the one-live-code
// per-identity and consume-on-read rules.
type fakeLinkCodeRepo struct {
	codes map[string]codeEntry
	seq   int
}

func newFakeLinkCodeRepo() *fakeLinkCodeRepo {
	return &fakeLinkCodeRepo{codes: make(map[string]codeEntry)}
}

func (f *fakeLinkCodeRepo) CreateLinkCode(discordID string) (string, error) {
	for code, entry := range f.codes {
		if entry.discordID == discordID {
			delete(f.codes, code)
		}
	}
	f.seq++
	code := fmt.Sprintf("CODE%02d", f.seq)
	f.codes[code] = codeEntry{discordID: discordID, expiresAt: time.Now().Add(10 * time.Minute)}
	return code, nil
}

func (f *fakeLinkCodeRepo) RedeemLinkCode(code string) (string, error) {
	entry, ok := f.codes[code]
	if !ok || !entry.expiresAt.After(time.Now()) {
		return "", nil
	}
	delete(f.codes, code)
	return entry.discordID, nil
}

func (f *fakeLinkCodeRepo) SweepExpiredCodes() (int64, error) {
	var removed int64
	for code, entry := range f.codes {
		if !entry.expiresAt.After(time.Now()) {
			delete(f.codes, code)
			removed++
		}
	}
	return removed, nil
}

// seed inserts a code directly, bypassing issuance.
func (f *fakeLinkCodeRepo) seed(code, discordID string, expiresAt time.Time) {
	f.codes[code] = codeEntry{discordID: discordID, expiresAt: expiresAt}
}

// fakeGuild is the membership collaborator: per-member role sets, optional
// per-role failures, and a record of every applied change.
type fakeGuild struct {
	members    map[string][]string
	roleNames  map[string]string
	failAdd    map[string]bool
	failRemove map[string]bool
	added      []string
	removed    []string
}

func newFakeGuild() *fakeGuild {
	return &fakeGuild{
		members:    make(map[string][]string),
		roleNames:  make(map[string]string),
		failAdd:    make(map[string]bool),
		failRemove: make(map[string]bool),
	}
}

func (f *fakeGuild) MemberRoles(userID string) ([]string, error) {
	roles, ok := f.members[userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	return append([]string(nil), roles...), nil
}

func (f *fakeGuild) AddRole(userID, roleID string) error {
	if f.failAdd[roleID] {
		return errors.New("missing permissions")
	}
	f.members[userID] = append(f.members[userID], roleID)
	f.added = append(f.added, roleID)
	return nil
}

func (f *fakeGuild) RemoveRole(userID, roleID string) error {
	if f.failRemove[roleID] {
		return errors.New("missing permissions")
	}
	roles := f.members[userID]
	for idx, id := range roles {
		if id == roleID {
			f.members[userID] = append(roles[:idx], roles[idx+1:]...)
			break
		}
	}
	f.removed = append(f.removed, roleID)
	return nil
}

func (f *fakeGuild) RoleName(roleID string) string {
	if name, ok := f.roleNames[roleID]; ok {
		return name
	}
	return roleID
}

// fakeSyncService records cleanup calls for link-service tests.
type fakeSyncService struct {
	events *[]string
}

func (f *fakeSyncService) SyncRoles(discordID string, groups []string) (*SyncResult, error) {
	return &SyncResult{Success: true, Message: "No role changes needed"}, nil
}

func (f *fakeSyncService) RemoveAllManagedRoles(discordID string) []string {
	if f.events != nil {
		*f.events = append(*f.events, "remove-roles:"+discordID)
	}
	return nil
}
