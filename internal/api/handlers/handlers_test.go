package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeon/stockpilot/internal/averaging"
	"github.com/hyeon/stockpilot/internal/glossary"
	"github.com/hyeon/stockpilot/internal/kakao"
	"github.com/hyeon/stockpilot/pkg/logger"
)

func skillBody(t *testing.T, params map[string]string) *bytes.Buffer {
	t.Helper()
	payload := map[string]interface{}{
		"userRequest": map[string]interface{}{"utterance": ""},
		"action":      map[string]interface{}{"params": params},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func decodeKakao(t *testing.T, rec *httptest.ResponseRecorder) *kakao.Response {
	t.Helper()
	var resp kakao.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return &resp
}

func newAveragingHandler(t *testing.T) *AveragingHandler {
	t.Helper()
	history, err := averaging.NewHistoryStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return NewAveragingHandler(history, logger.NewNop())
}

func TestSkillAveraging(t *testing.T) {
	h := newAveragingHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/skill/averaging", skillBody(t, map[string]string{
		"avg_price":     "70,000원",
		"quantity":      "10주",
		"current_price": "60000",
		"add_quantity":  "10",
	}))
	rec := httptest.NewRecorder()
	h.SkillAveraging(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeKakao(t, rec)
	require.Len(t, resp.Template.Outputs, 1)
	require.NotNil(t, resp.Template.Outputs[0].SimpleText)
	assert.Contains(t, resp.Template.Outputs[0].SimpleText.Text, "새 평단가: 65,000원")
}

func TestSkillAveragingTargetMode(t *testing.T) {
	h := newAveragingHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/skill/averaging", skillBody(t, map[string]string{
		"avg_price":     "70000",
		"quantity":      "10",
		"current_price": "60000",
		"target_price":  "65000",
	}))
	rec := httptest.NewRecorder()
	h.SkillAveraging(rec, req)

	resp := decodeKakao(t, rec)
	require.NotNil(t, resp.Template.Outputs[0].SimpleText)
	assert.Contains(t, resp.Template.Outputs[0].SimpleText.Text, "필요 수량: 10주")
}

func TestSkillAveragingInvalidInput(t *testing.T) {
	h := newAveragingHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/skill/averaging", skillBody(t, map[string]string{
		"avg_price": "칠만원",
	}))
	rec := httptest.NewRecorder()
	h.SkillAveraging(rec, req)

	resp := decodeKakao(t, rec)
	require.NotNil(t, resp.Template.Outputs[0].SimpleText)
	assert.Contains(t, resp.Template.Outputs[0].SimpleText.Text, "⚠️")
}

func newGlossaryHandler(t *testing.T) *GlossaryHandler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glossary.json")
	data := `{
		"PER": {"full_name": "주가수익비율", "category": "재무비율", "description": "주가를 주당순이익으로 나눈 값", "related_terms": ["EPS"]},
		"EPS": {"full_name": "주당순이익", "category": "재무비율", "description": "순이익을 주식수로 나눈 값"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	g, err := glossary.Load(path, logger.NewNop())
	require.NoError(t, err)
	return NewGlossaryHandler(g, logger.NewNop())
}

func TestSkillGlossaryLookup(t *testing.T) {
	h := newGlossaryHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/skill/glossary", skillBody(t, map[string]string{"term": "PER"}))
	rec := httptest.NewRecorder()
	h.SkillGlossary(rec, req)

	resp := decodeKakao(t, rec)
	require.NotNil(t, resp.Template.Outputs[0].SimpleText)
	assert.Contains(t, resp.Template.Outputs[0].SimpleText.Text, "주가수익비율")

	require.Len(t, resp.Template.QuickReplies, 1)
	assert.Equal(t, "EPS", resp.Template.QuickReplies[0].Label)
}

func TestSkillGlossaryCategoryList(t *testing.T) {
	h := newGlossaryHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/skill/glossary", skillBody(t, map[string]string{"term": "카테고리"}))
	rec := httptest.NewRecorder()
	h.SkillGlossary(rec, req)

	resp := decodeKakao(t, rec)
	require.NotNil(t, resp.Template.Outputs[0].SimpleText)
	assert.Contains(t, resp.Template.Outputs[0].SimpleText.Text, "재무비율")
}

func TestGetTermNotFound(t *testing.T) {
	h := newGlossaryHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/glossary/XYZ", nil)
	req = mux.SetURLVars(req, map[string]string{"term": "XYZ"})
	rec := httptest.NewRecorder()
	h.GetTerm(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtractTicker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"005930", "005930"},
		{"삼성전자 005930 리포트", "005930"},
		{"1234567", ""},
		{"삼성전자", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractTicker(tt.input), "input=%q", tt.input)
	}
}

func TestParseNumber(t *testing.T) {
	v, err := parseNumber("70,000원")
	require.NoError(t, err)
	assert.Equal(t, 70000.0, v)

	_, err = parseNumber("칠만")
	assert.Error(t, err)
}
