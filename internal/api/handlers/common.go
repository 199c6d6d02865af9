// Package handlers holds the HTTP and Kakao skill handlers.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hyeon/stockpilot/internal/kakao"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondKakao writes a skill envelope. The skill contract requires 200
// even on failure, so errors degrade to an error response upstream.
func respondKakao(w http.ResponseWriter, resp *kakao.Response) {
	respondJSON(w, http.StatusOK, resp)
}

// decodeSkillRequest parses the skill payload; a broken body still gets
// an empty request so handlers can fall back to defaults.
func decodeSkillRequest(r *http.Request) *kakao.SkillRequest {
	var req kakao.SkillRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	return &req
}
