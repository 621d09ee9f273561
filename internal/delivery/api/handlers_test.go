package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mcranksync/internal/application"
	"mcranksync/internal/models"
	"mcranksync/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

type testLogger struct{}

func (testLogger) Error(format string, v ...interface{}) {}
func (testLogger) Warn(format string, v ...interface{})  {}
func (testLogger) Info(format string, v ...interface{})  {}
func (testLogger) Debug(format string, v ...interface{}) {}

type stubLinkService struct {
	getByUUID   func(mcUUID string) (*models.PlayerLink, error)
	linkAccount func(mcUUID, mcName, code string) (string, error)
	unlink      func(mcUUID string) (*models.PlayerLink, error)
}

func (s *stubLinkService) GenerateLinkCode(discordID string) (string, error) { return "", nil }
func (s *stubLinkService) LinkAccount(mcUUID, mcName, code string) (string, error) {
	return s.linkAccount(mcUUID, mcName, code)
}
func (s *stubLinkService) UnlinkByMcUUID(mcUUID string) (*models.PlayerLink, error) {
	return s.unlink(mcUUID)
}
func (s *stubLinkService) UnlinkByDiscordID(discordID string) (*models.PlayerLink, error) {
	return nil, nil
}
func (s *stubLinkService) GetLinkByMcUUID(mcUUID string) (*models.PlayerLink, error) {
	return s.getByUUID(mcUUID)
}
func (s *stubLinkService) GetLinkByDiscordID(discordID string) (*models.PlayerLink, error) {
	return nil, nil
}
func (s *stubLinkService) SweepExpiredCodes() (int64, error) { return 0, nil }

type stubSyncService struct {
	syncRoles func(discordID string, groups []string) (*application.SyncResult, error)
}

func (s *stubSyncService) SyncRoles(discordID string, groups []string) (*application.SyncResult, error) {
	return s.syncRoles(discordID, groups)
}
func (s *stubSyncService) RemoveAllManagedRoles(discordID string) []string { return nil }

func newTestHandler(links application.LinkService, sync application.SyncService) http.Handler {
	cfg := &config.Config{APIToken: testToken, APIPort: "0"}
	services := &application.Service{Links: links, Sync: sync}
	return NewServer(cfg, services, testLogger{}).Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(&stubLinkService{}, &stubSyncService{})

	rec := doRequest(t, handler, http.MethodGet, "/health", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestAuthentication(t *testing.T) {
	handler := newTestHandler(&stubLinkService{}, &stubSyncService{})

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/linked/uuid-1", "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/linked/uuid-1", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/linked/uuid-1", nil)
		req.Header.Set("Authorization", "Basic "+testToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRankUpdate_MissingFields(t *testing.T) {
	handler := newTestHandler(&stubLinkService{}, &stubSyncService{})

	rec := doRequest(t, handler, http.MethodPost, "/api/rank-update", `{"uuid":"uuid-1"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "Missing required fields")
}

func TestRankUpdate_PlayerNotLinked(t *testing.T) {
	links := &stubLinkService{
		getByUUID: func(string) (*models.PlayerLink, error) { return nil, nil },
	}
	handler := newTestHandler(links, &stubSyncService{})

	rec := doRequest(t, handler, http.MethodPost, "/api/rank-update",
		`{"uuid":"uuid-1","playerName":"Steve","groups":["vip"],"eventType":"promotion"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["linked"])
	assert.Equal(t, "Player not linked to Discord", body["message"])
}

func TestRankUpdate_SyncsLinkedPlayer(t *testing.T) {
	links := &stubLinkService{
		getByUUID: func(mcUUID string) (*models.PlayerLink, error) {
			return &models.PlayerLink{McUUID: mcUUID, McName: "Steve", DiscordID: "D1"}, nil
		},
	}

	var gotDiscordID string
	var gotGroups []string
	sync := &stubSyncService{
		syncRoles: func(discordID string, groups []string) (*application.SyncResult, error) {
			gotDiscordID = discordID
			gotGroups = groups
			return &application.SyncResult{
				Success: true,
				Message: "Roles updated: +1 -1",
				Added:   []string{"VIP"},
				Removed: []string{"Member"},
			}, nil
		},
	}
	handler := newTestHandler(links, sync)

	rec := doRequest(t, handler, http.MethodPost, "/api/rank-update",
		`{"uuid":"uuid-1","playerName":"Steve","groups":["vip"],"eventType":"promotion"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "D1", gotDiscordID)
	assert.Equal(t, []string{"vip"}, gotGroups)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["linked"])
	assert.Equal(t, []interface{}{"VIP"}, body["rolesAdded"])
	assert.Equal(t, []interface{}{"Member"}, body["rolesRemoved"])
}

func TestPlayerJoin_MemberNotFound(t *testing.T) {
	links := &stubLinkService{
		getByUUID: func(mcUUID string) (*models.PlayerLink, error) {
			return &models.PlayerLink{McUUID: mcUUID, DiscordID: "D1"}, nil
		},
	}
	sync := &stubSyncService{
		syncRoles: func(string, []string) (*application.SyncResult, error) {
			return &application.SyncResult{Success: false, Message: "Discord member not found in guild"}, nil
		},
	}
	handler := newTestHandler(links, sync)

	rec := doRequest(t, handler, http.MethodPost, "/api/player-join",
		`{"uuid":"uuid-1","playerName":"Steve","groups":[]}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["linked"])
	// Arrays stay present even when nothing was attempted.
	assert.Equal(t, []interface{}{}, body["rolesAdded"])
	assert.Equal(t, []interface{}{}, body["rolesRemoved"])
}

func TestLink(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		handler := newTestHandler(&stubLinkService{}, &stubSyncService{})
		rec := doRequest(t, handler, http.MethodPost, "/api/link", `{"uuid":"uuid-1"}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid code", func(t *testing.T) {
		links := &stubLinkService{
			linkAccount: func(string, string, string) (string, error) {
				return "", application.ErrCodeInvalid
			},
		}
		handler := newTestHandler(links, &stubSyncService{})
		rec := doRequest(t, handler, http.MethodPost, "/api/link",
			`{"uuid":"uuid-1","playerName":"Steve","linkCode":"AAAAAA"}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Invalid or expired link code", body["error"])
	})

	t.Run("conflicting link", func(t *testing.T) {
		links := &stubLinkService{
			linkAccount: func(string, string, string) (string, error) {
				return "", application.ErrAlreadyLinked
			},
		}
		handler := newTestHandler(links, &stubSyncService{})
		rec := doRequest(t, handler, http.MethodPost, "/api/link",
			`{"uuid":"uuid-1","playerName":"Steve","linkCode":"AAAAAA"}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["success"])
	})

	t.Run("success", func(t *testing.T) {
		links := &stubLinkService{
			linkAccount: func(mcUUID, mcName, code string) (string, error) {
				assert.Equal(t, "uuid-1", mcUUID)
				assert.Equal(t, "Steve", mcName)
				assert.Equal(t, "AAAAAA", code)
				return "D1", nil
			},
		}
		handler := newTestHandler(links, &stubSyncService{})
		rec := doRequest(t, handler, http.MethodPost, "/api/link",
			`{"uuid":"uuid-1","playerName":"Steve","linkCode":"AAAAAA"}`, true)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "D1", body["discordId"])
	})
}

func TestUnlink(t *testing.T) {
	t.Run("not linked", func(t *testing.T) {
		links := &stubLinkService{
			unlink: func(string) (*models.PlayerLink, error) {
				return nil, application.ErrLinkNotFound
			},
		}
		handler := newTestHandler(links, &stubSyncService{})
		rec := doRequest(t, handler, http.MethodPost, "/api/unlink", `{"uuid":"uuid-1"}`, true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["success"])
	})

	t.Run("success", func(t *testing.T) {
		links := &stubLinkService{
			unlink: func(mcUUID string) (*models.PlayerLink, error) {
				return &models.PlayerLink{McUUID: mcUUID, DiscordID: "D1"}, nil
			},
		}
		handler := newTestHandler(links, &stubSyncService{})
		rec := doRequest(t, handler, http.MethodPost, "/api/unlink", `{"uuid":"uuid-1"}`, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["success"])
	})
}

func TestLinked(t *testing.T) {
	linkedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	links := &stubLinkService{
		getByUUID: func(mcUUID string) (*models.PlayerLink, error) {
			if mcUUID == "uuid-1" {
				return &models.PlayerLink{McUUID: mcUUID, DiscordID: "D1", LinkedAt: linkedAt}, nil
			}
			return nil, nil
		},
	}
	handler := newTestHandler(links, &stubSyncService{})

	t.Run("linked", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/linked/uuid-1", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["linked"])
		assert.Equal(t, "D1", body["discordId"])
		assert.Equal(t, "2026-03-01T12:00:00Z", body["linkedAt"])
	})

	t.Run("not linked", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/linked/uuid-9", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["linked"])
		assert.NotContains(t, body, "discordId")
	})
}
