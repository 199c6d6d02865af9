package kakao

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimpleTextResponse(t *testing.T) {
	resp := NewSimpleTextResponse("안녕하세요")

	assert.Equal(t, "2.0", resp.Version)
	require.Len(t, resp.Template.Outputs, 1)
	assert.Equal(t, "안녕하세요", resp.Template.Outputs[0].SimpleText.Text)
}

func TestNewBasicCardResponseJSON(t *testing.T) {
	resp := NewBasicCardResponse(BasicCard{
		Title:       "📊 삼성전자 (005930)",
		Description: "반도체 업황 회복 기대.",
		Thumbnail:   &Thumbnail{ImageURL: "https://example.com/chart/005930.png"},
		Buttons: []Button{
			{Action: "webLink", Label: "📄 상세 리포트 보기", WebLinkURL: "https://example.com/report/005930"},
		},
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"version":"2.0"`)
	assert.Contains(t, body, `"basicCard"`)
	assert.Contains(t, body, `"webLinkUrl"`)
	// 비어 있는 컴포넌트는 직렬화되면 안 된다
	assert.NotContains(t, body, `"simpleText"`)
	assert.NotContains(t, body, `"listCard"`)
}

func TestWithQuickReplies(t *testing.T) {
	resp := NewSimpleTextResponse("어떤 종목이 궁금하세요?").
		WithQuickReplies(
			QuickReply{Label: "삼성전자", Action: "message", MessageText: "삼성전자 리포트"},
			QuickReply{Label: "카카오", Action: "message", MessageText: "카카오 리포트"},
		)

	require.Len(t, resp.Template.QuickReplies, 2)
	assert.Equal(t, "삼성전자", resp.Template.QuickReplies[0].Label)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("리포트 생성에 실패했습니다")
	assert.Contains(t, resp.Template.Outputs[0].SimpleText.Text, "⚠️")
	assert.Contains(t, resp.Template.Outputs[0].SimpleText.Text, "리포트 생성에 실패했습니다")

	fallback := NewErrorResponse("")
	assert.Contains(t, fallback.Template.Outputs[0].SimpleText.Text, "다시 시도해주세요")
}

func TestSkillRequestParam(t *testing.T) {
	raw := `{
		"userRequest": {"utterance": "삼성전자 리포트", "user": {"id": "u1"}},
		"action": {"params": {"ticker": "005930"}}
	}`

	var req SkillRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	assert.Equal(t, "005930", req.Param("ticker"))
	assert.Equal(t, "", req.Param("period"))
	assert.Equal(t, "삼성전자 리포트", req.ParamOrUtterance("period"))
}

func TestExtractOpinion(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		opinion string
		target  string
		risk    string
	}{
		{
			"buy with explicit target",
			"현 시점에서 매수 의견을 제시합니다. 목표주가: 115,000원, 낮은 리스크로 판단됩니다.",
			"매수", "115,000원", "낮음",
		},
		{
			"hold with loose price",
			"보유 의견입니다. 적정 가치는 72,000원으로 제시하며 중간 리스크입니다.",
			"보유", "72,000원", "중간",
		},
		{
			"english sell high risk",
			"We recommend SELL given the high risk profile.",
			"매도", "N/A", "높음",
		},
		{
			"wait and see",
			"당분간 관망을 권합니다.",
			"관망", "N/A", "N/A",
		},
		{
			"empty",
			"",
			"N/A", "N/A", "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractOpinion(tt.text)
			assert.Equal(t, tt.opinion, got.Opinion)
			assert.Equal(t, tt.target, got.TargetPrice)
			assert.Equal(t, tt.risk, got.RiskLevel)
		})
	}
}

func TestOpinionEmoji(t *testing.T) {
	assert.Equal(t, "🟢", OpinionEmoji("매수"))
	assert.Equal(t, "🟡", OpinionEmoji("보유"))
	assert.Equal(t, "🔴", OpinionEmoji("매도"))
	assert.Equal(t, "⚪", OpinionEmoji("관망"))
	assert.Equal(t, "⚪", OpinionEmoji("N/A"))
}
