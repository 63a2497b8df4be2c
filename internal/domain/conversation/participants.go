package conversation

import (
	"errors"
	"strings"

	"talentbridge/marketplace-api/internal/domain"
)

var (
	ErrUnsupportedRole     = errors.New("role must be talent or recruiter")
	ErrCounterpartRequired = errors.New("counterpart id is required for the caller's role")
	ErrSelfConversation    = errors.New("a user cannot open a conversation with themselves")
)

// Participants is the ordered (recruiter, talent) pair that identifies a conversation.
type Participants struct {
	RecruiterID string
	TalentID    string
}

// ResolveParticipants maps the caller and the counterpart hint to the conversation pair.
// A recruiter must name talentId; a talent must name recruiterId.
func ResolveParticipants(caller domain.Principal, input CreateInput) (Participants, error) {
	var p Participants
	switch caller.Role {
	case domain.RoleRecruiter:
		talentID := trimmed(input.TalentID)
		if talentID == "" {
			return p, ErrCounterpartRequired
		}
		p = Participants{RecruiterID: caller.ID, TalentID: talentID}
	case domain.RoleTalent:
		recruiterID := trimmed(input.RecruiterID)
		if recruiterID == "" {
			return p, ErrCounterpartRequired
		}
		p = Participants{RecruiterID: recruiterID, TalentID: caller.ID}
	default:
		return p, ErrUnsupportedRole
	}
	if p.RecruiterID == p.TalentID {
		return Participants{}, ErrSelfConversation
	}
	return p, nil
}

// HasParticipant reports whether userID is the recruiter or the talent.
func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (userID == c.RecruiterID || userID == c.TalentID)
}

// Counterpart returns the other party for userID, or false when userID is not a party.
func (c *Conversation) Counterpart(userID string) (string, bool) {
	switch userID {
	case "":
		return "", false
	case c.RecruiterID:
		return c.TalentID, true
	case c.TalentID:
		return c.RecruiterID, true
	default:
		return "", false
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
