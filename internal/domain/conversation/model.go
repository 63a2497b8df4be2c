package conversation

import (
	"errors"
	"time"
)

// Contract event texts posted by SendContractMessage.
const (
	ContractSentText         = "New contract sent"
	ContractTalentSignedText = "Talent signed the contract"
	ContractFullySignedText  = "Contract signed by both parties"
)

var (
	// ErrNotFound is returned by repositories when no record matches.
	ErrNotFound = errors.New("conversation not found")
	// ErrDuplicate is returned by Repository.Create when the (recruiter, talent) pair already exists.
	ErrDuplicate = errors.New("conversation already exists for participants")
)

// Conversation is the single thread between one recruiter and one talent.
type Conversation struct {
	ID                    string     `json:"id"`
	RecruiterID           string     `json:"recruiterId"`
	TalentID              string     `json:"talentId"`
	MissionID             *string    `json:"missionId,omitempty"`
	RecruiterName         *string    `json:"recruiterName,omitempty"`
	RecruiterProfileImage *string    `json:"recruiterProfileImage,omitempty"`
	TalentName            *string    `json:"talentName,omitempty"`
	TalentProfileImage    *string    `json:"talentProfileImage,omitempty"`
	LastMessageText       *string    `json:"lastMessageText,omitempty"`
	LastMessageAt         *time.Time `json:"lastMessageAt,omitempty"`
	DeletedBy             []string   `json:"deletedBy"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// Display is the denormalized snapshot of both parties' names and images.
type Display struct {
	RecruiterName         *string
	RecruiterProfileImage *string
	TalentName            *string
	TalentProfileImage    *string
}

// Display returns the conversation's current snapshot.
func (c *Conversation) Display() Display {
	return Display{
		RecruiterName:         c.RecruiterName,
		RecruiterProfileImage: c.RecruiterProfileImage,
		TalentName:            c.TalentName,
		TalentProfileImage:    c.TalentProfileImage,
	}
}

// ApplyDisplay overwrites the snapshot fields.
func (c *Conversation) ApplyDisplay(d Display) {
	c.RecruiterName = d.RecruiterName
	c.RecruiterProfileImage = d.RecruiterProfileImage
	c.TalentName = d.TalentName
	c.TalentProfileImage = d.TalentProfileImage
}

// Stale reports whether any cached name or image is missing.
func (d Display) Stale() bool {
	return blank(d.RecruiterName) || blank(d.RecruiterProfileImage) || blank(d.TalentName) || blank(d.TalentProfileImage)
}

// ActivityAt is the sort key for listings: last message time, else last update.
func (c *Conversation) ActivityAt() time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.UpdatedAt
}

// DeletedFor reports whether userID has hidden the conversation.
func (c *Conversation) DeletedFor(userID string) bool {
	for _, id := range c.DeletedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a single entry in a conversation's log.
type Message struct {
	ID                string     `json:"id"`
	ConversationID    string     `json:"conversationId"`
	SenderID          string     `json:"senderId"`
	ReceiverID        string     `json:"receiverId"`
	Text              string     `json:"text"`
	IsRead            bool       `json:"isRead"`
	SeenAt            *time.Time `json:"seenAt,omitempty"`
	ContractID        *string    `json:"contractId,omitempty"`
	PDFURL            *string    `json:"pdfUrl,omitempty"`
	IsContractMessage bool       `json:"isContractMessage"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// CreateInput is the counterpart hint supplied to FindOrCreate.
// Recruiters name the talent, talents name the recruiter.
type CreateInput struct {
	MissionID   *string `json:"missionId"`
	TalentID    *string `json:"talentId"`
	RecruiterID *string `json:"recruiterId"`
}

func blank(s *string) bool {
	return s == nil || *s == ""
}
