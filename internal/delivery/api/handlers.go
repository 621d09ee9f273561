package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mcranksync/internal/application"

	"github.com/go-chi/chi/v5"
)

type rankSyncRequest struct {
	UUID       string   `json:"uuid"`
	PlayerName string   `json:"playerName"`
	Groups     []string `json:"groups"`
	EventType  string   `json:"eventType"`
}

type rankSyncResponse struct {
	Success      bool     `json:"success"`
	Linked       bool     `json:"linked"`
	Message      string   `json:"message"`
	RolesAdded   []string `json:"rolesAdded"`
	RolesRemoved []string `json:"rolesRemoved"`
}

type linkRequest struct {
	UUID       string `json:"uuid"`
	PlayerName string `json:"playerName"`
	LinkCode   string `json:"linkCode"`
}

type unlinkRequest struct {
	UUID string `json:"uuid"`
}

func (s *Server) handleRankUpdate(w http.ResponseWriter, r *http.Request) {
	s.syncPlayer(w, r, "rank update")
}

func (s *Server) handlePlayerJoin(w http.ResponseWriter, r *http.Request) {
	s.syncPlayer(w, r, "player join")
}

// syncPlayer serves both rank-update and player-join: resolve the link,
// reconcile roles, report attempted changes.
func (s *Server) syncPlayer(w http.ResponseWriter, r *http.Request, event string) {
	var req rankSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UUID == "" || req.PlayerName == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: uuid, playerName")
		return
	}

	s.logger.Info("Received %s for %s (%s)", event, req.PlayerName, req.UUID)
	s.logger.Debug("Groups: %v (event type: %s)", req.Groups, req.EventType)

	link, err := s.services.Links.GetLinkByMcUUID(req.UUID)
	if err != nil {
		s.logger.Error("Failed to look up link for %s: %v", req.UUID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if link == nil {
		s.logger.Debug("Player %s is not linked to a Discord account", req.PlayerName)
		writeJSON(w, http.StatusOK, rankSyncResponse{
			Success:      true,
			Linked:       false,
			Message:      "Player not linked to Discord",
			RolesAdded:   []string{},
			RolesRemoved: []string{},
		})
		return
	}

	result, err := s.services.Sync.SyncRoles(link.DiscordID, req.Groups)
	if err != nil {
		s.logger.Error("Role sync failed for %s: %v", req.PlayerName, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info("Role sync completed for %s: %s", req.PlayerName, result.Message)

	writeJSON(w, http.StatusOK, rankSyncResponse{
		Success:      result.Success,
		Linked:       true,
		Message:      result.Message,
		RolesAdded:   emptyIfNil(result.Added),
		RolesRemoved: emptyIfNil(result.Removed),
	})
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UUID == "" || req.PlayerName == "" || req.LinkCode == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: uuid, playerName, linkCode")
		return
	}

	s.logger.Info("Link request received for %s (%s)", req.PlayerName, req.UUID)

	discordID, err := s.services.Links.LinkAccount(req.UUID, req.PlayerName, req.LinkCode)
	switch {
	case errors.Is(err, application.ErrCodeInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid or expired link code",
		})
		return
	case errors.Is(err, application.ErrAlreadyLinked):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "This Minecraft account is already linked to a different Discord account",
		})
		return
	case err != nil:
		s.logger.Error("Failed to link %s: %v", req.UUID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Account linked successfully",
		"discordId": discordID,
	})
}

func (s *Server) handleUnlink(w http.ResponseWriter, r *http.Request) {
	var req unlinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UUID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: uuid")
		return
	}

	s.logger.Info("Unlink request received for %s", req.UUID)

	_, err := s.services.Links.UnlinkByMcUUID(req.UUID)
	switch {
	case errors.Is(err, application.ErrLinkNotFound):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   "Account not linked",
		})
		return
	case err != nil:
		s.logger.Error("Failed to unlink %s: %v", req.UUID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Account unlinked successfully",
	})
}

func (s *Server) handleLinked(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	link, err := s.services.Links.GetLinkByMcUUID(uuid)
	if err != nil {
		s.logger.Error("Failed to check link status for %s: %v", uuid, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if link == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"linked": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"linked":    true,
		"discordId": link.DiscordID,
		"linkedAt":  link.LinkedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
