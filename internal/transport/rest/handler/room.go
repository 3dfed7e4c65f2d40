package handler

import (
	"net/http"

	"lowbid/internal/service"
	"lowbid/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	roomSvc *service.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// List handles GET /v1/rooms
// @Summary List open rooms
// @Tags rooms
// @Produce json
// @Success 200 {object} map[string][]model.RoomSummary
// @Router /rooms [get]
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"rooms": h.roomSvc.ListRooms()})
}

// Get handles GET /v1/rooms/{code}
// @Summary Room and session snapshot
// @Tags rooms
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} model.RoomView
// @Failure 404 {object} service.Rejection
// @Router /rooms/{code} [get]
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	view, err := h.roomSvc.GetRoom(code)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Start handles POST /v1/rooms/{code}/start
// @Summary Start the game (host only)
// @Tags rooms
// @Security ConnectionToken
// @Param code path string true "Room code"
// @Success 200 {object} model.RoomView
// @Failure 403 {object} service.Rejection
// @Router /rooms/{code}/start [post]
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	connID := middleware.GetConnectionID(r.Context())

	if err := h.roomSvc.StartGame(connID, code); err != nil {
		writeRejection(w, err)
		return
	}
	h.Get(w, r)
}

// Resolve handles POST /v1/rooms/{code}/resolve
// @Summary Close the open auction round (host only)
// @Tags rooms
// @Security ConnectionToken
// @Param code path string true "Room code"
// @Success 200 {object} model.RoomView
// @Failure 403 {object} service.Rejection
// @Router /rooms/{code}/resolve [post]
func (h *RoomHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	connID := middleware.GetConnectionID(r.Context())

	if err := h.roomSvc.ResolveAuction(connID, code); err != nil {
		writeRejection(w, err)
		return
	}
	h.Get(w, r)
}
