// Package kakao implements the KakaoTalk skill-server response contract
// (API 2.0 envelope) and helpers shared by the chatbot endpoints.
package kakao

// Response is the skill-server envelope. Version is always "2.0".
type Response struct {
	Version  string   `json:"version"`
	Template Template `json:"template"`
}

type Template struct {
	Outputs      []Output     `json:"outputs"`
	QuickReplies []QuickReply `json:"quickReplies,omitempty"`
}

// Output holds exactly one component. 카카오가 요구하는 oneof 구조.
type Output struct {
	SimpleText *SimpleText `json:"simpleText,omitempty"`
	TextCard   *TextCard   `json:"textCard,omitempty"`
	BasicCard  *BasicCard  `json:"basicCard,omitempty"`
	ListCard   *ListCard   `json:"listCard,omitempty"`
}

type SimpleText struct {
	Text string `json:"text"`
}

type TextCard struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Buttons     []Button `json:"buttons,omitempty"`
}

type BasicCard struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
	Buttons     []Button   `json:"buttons,omitempty"`
}

type Thumbnail struct {
	ImageURL string `json:"imageUrl"`
}

type Button struct {
	Action     string `json:"action"`
	Label      string `json:"label"`
	WebLinkURL string `json:"webLinkUrl,omitempty"`
	MessageTxt string `json:"messageText,omitempty"`
}

type ListCard struct {
	Header  ListHeader `json:"header"`
	Items   []ListItem `json:"items"`
	Buttons []Button   `json:"buttons,omitempty"`
}

type ListHeader struct {
	Title string `json:"title"`
}

type ListItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type QuickReply struct {
	Label       string `json:"label"`
	Action      string `json:"action"`
	MessageText string `json:"messageText,omitempty"`
	BlockID     string `json:"blockId,omitempty"`
}

// NewSimpleTextResponse wraps plain text in the envelope
func NewSimpleTextResponse(text string) *Response {
	return &Response{
		Version: "2.0",
		Template: Template{
			Outputs: []Output{{SimpleText: &SimpleText{Text: text}}},
		},
	}
}

// NewBasicCardResponse wraps a single basic card in the envelope
func NewBasicCardResponse(card BasicCard) *Response {
	return &Response{
		Version: "2.0",
		Template: Template{
			Outputs: []Output{{BasicCard: &card}},
		},
	}
}

// NewListCardResponse wraps a single list card in the envelope
func NewListCardResponse(card ListCard) *Response {
	return &Response{
		Version: "2.0",
		Template: Template{
			Outputs: []Output{{ListCard: &card}},
		},
	}
}

// NewOutputsResponse combines multiple components into one message
func NewOutputsResponse(outputs ...Output) *Response {
	return &Response{
		Version:  "2.0",
		Template: Template{Outputs: outputs},
	}
}

// WithQuickReplies attaches quick replies and returns the response
func (r *Response) WithQuickReplies(replies ...QuickReply) *Response {
	r.Template.QuickReplies = replies
	return r
}

// NewErrorResponse is the degraded reply used when a skill handler fails.
// 실패해도 챗봇 말풍선은 항상 나가야 한다.
func NewErrorResponse(message string) *Response {
	if message == "" {
		message = "요청 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	}
	return NewSimpleTextResponse("⚠️ " + message)
}
