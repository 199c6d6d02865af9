package kakao

// SkillRequest is the payload the Kakao skill server POSTs to a handler.
// Only the fields the handlers read are mapped.
type SkillRequest struct {
	UserRequest struct {
		Utterance string `json:"utterance"`
		User      struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"userRequest"`
	Action struct {
		Params map[string]string `json:"params"`
	} `json:"action"`
}

// Param returns a named action parameter, falling back to the utterance
// when the block did not map one.
func (r *SkillRequest) Param(name string) string {
	if v, ok := r.Action.Params[name]; ok && v != "" {
		return v
	}
	return ""
}

// ParamOrUtterance returns the named parameter or the raw utterance
func (r *SkillRequest) ParamOrUtterance(name string) string {
	if v := r.Param(name); v != "" {
		return v
	}
	return r.UserRequest.Utterance
}
