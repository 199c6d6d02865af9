package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hyeon/stockpilot/internal/glossary"
	"github.com/hyeon/stockpilot/internal/kakao"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// GlossaryHandler serves investment term lookups
type GlossaryHandler struct {
	glossary *glossary.Glossary
	logger   *logger.Logger
}

// NewGlossaryHandler creates a new glossary handler
func NewGlossaryHandler(g *glossary.Glossary, log *logger.Logger) *GlossaryHandler {
	return &GlossaryHandler{glossary: g, logger: log}
}

// GetTerm looks up a single term
// GET /api/glossary/{term}
func (h *GlossaryHandler) GetTerm(w http.ResponseWriter, r *http.Request) {
	term := mux.Vars(r)["term"]
	if term == "" {
		respondError(w, http.StatusBadRequest, "term is required")
		return
	}

	result := h.glossary.Lookup(term)
	if !result.Found {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"similar": result.Similar,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"term":    result.Term,
		"data":    result.Data,
	})
}

// GetCategories lists the glossary categories
// GET /api/glossary
func (h *GlossaryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": h.glossary.Categories(),
		"count":      h.glossary.Count(),
	})
}

// SkillGlossary handles the chatbot term lookup. 카테고리 요청은 전체
// 목록 카드로 응답한다.
// POST /skill/glossary
func (h *GlossaryHandler) SkillGlossary(w http.ResponseWriter, r *http.Request) {
	req := decodeSkillRequest(r)
	term := strings.TrimSpace(req.ParamOrUtterance("term"))

	if term == "" || strings.Contains(term, "카테고리") || strings.Contains(term, "목록") {
		respondKakao(w, kakao.NewSimpleTextResponse(h.glossary.FormatCategoryList()))
		return
	}

	resp := kakao.NewSimpleTextResponse(h.glossary.FormatTermCard(term))

	// 연관 용어가 있으면 바로가기 버튼으로
	related := h.glossary.RelatedTerms(term)
	if len(related) > 0 {
		replies := make([]kakao.QuickReply, 0, 3)
		for i, entry := range related {
			if i == 3 {
				break
			}
			replies = append(replies, kakao.QuickReply{
				Label:       entry.Term,
				Action:      "message",
				MessageText: entry.Term,
			})
		}
		resp.WithQuickReplies(replies...)
	}

	respondKakao(w, resp)
}
