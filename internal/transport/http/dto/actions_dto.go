package dto

type ActionRequest struct {
	TargetID int64  `json:"target_id"`
	Action   string `json:"action"`
}

type ActionResponse struct {
	OK           bool                 `json:"ok"`
	Action       string               `json:"action"`
	MatchCreated bool                 `json:"match_created"`
	Match        *MatchDetailResponse `json:"match,omitempty"`
}
