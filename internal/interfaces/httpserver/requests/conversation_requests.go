package requests

import "talentbridge/marketplace-api/internal/domain/conversation"

// CreateConversationRequest names the counterpart. Recruiters send talentId, talents send recruiterId.
type CreateConversationRequest struct {
	MissionID   *string `json:"missionId,omitempty" example:"7b0c1e9a-3f7d-4b4e-9f1a-0c2d3e4f5a6b"`
	TalentID    *string `json:"talentId,omitempty" example:"tal-1"`
	RecruiterID *string `json:"recruiterId,omitempty" example:"rec-1"`
}

// ToInput maps the request to the domain hint.
func (r CreateConversationRequest) ToInput() conversation.CreateInput {
	return conversation.CreateInput{
		MissionID:   r.MissionID,
		TalentID:    r.TalentID,
		RecruiterID: r.RecruiterID,
	}
}

// SendMessageRequest carries the message text.
type SendMessageRequest struct {
	Text string `json:"text" example:"Hello"`
}
