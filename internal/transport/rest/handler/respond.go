package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lowbid/internal/service"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeRejection reports a refused room command with its rejection code
func writeRejection(w http.ResponseWriter, err error) {
	rej := service.Reject(err)
	writeJSON(w, rejectionStatus(rej.Code), rej)
}

func rejectionStatus(code string) int {
	switch code {
	case "RoomNotFound":
		return http.StatusNotFound
	case "NotHost":
		return http.StatusForbidden
	case "InvalidCapacity", "InvalidBid", "InvalidUsername", "InvalidCommand":
		return http.StatusBadRequest
	case service.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

func writeArchiveError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrArchiveDisabled) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
