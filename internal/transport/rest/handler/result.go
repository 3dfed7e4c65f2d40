package handler

import (
	"net/http"
	"strconv"

	"lowbid/internal/service"

	"github.com/gorilla/mux"
)

// ResultHandler serves archived games and leaderboards
type ResultHandler struct {
	archive *service.ArchiveService
}

// NewResultHandler creates a new result handler
func NewResultHandler(archive *service.ArchiveService) *ResultHandler {
	return &ResultHandler{archive: archive}
}

// Results handles GET /v1/rooms/{code}/results
// @Summary Archived games played under a room code
// @Tags results
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} map[string][]model.GameResult
// @Failure 503 {object} map[string]string
// @Router /rooms/{code}/results [get]
func (h *ResultHandler) Results(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	results, err := h.archive.ResultsForRoom(r.Context(), code, int64(limitParam(r, 10)))
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Standings handles GET /v1/rooms/{code}/standings
// @Summary Final standings of the last game in a room
// @Tags results
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} map[string][]cache.LeaderboardEntry
// @Router /rooms/{code}/standings [get]
func (h *ResultHandler) Standings(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	entries, err := h.archive.RoomStandings(r.Context(), code, limitParam(r, 8))
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"standings": entries})
}

// Leaderboard handles GET /v1/leaderboard
// @Summary Usernames with the most won games
// @Tags results
// @Produce json
// @Param top query int false "Entries to return"
// @Success 200 {object} map[string][]cache.LeaderboardEntry
// @Router /leaderboard [get]
func (h *ResultHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.archive.TopWinners(r.Context(), limitParam(r, 20))
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

func limitParam(r *http.Request, def int) int {
	topStr := r.URL.Query().Get("top")
	if topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil && n > 0 && n <= 100 {
			return n
		}
	}
	return def
}
