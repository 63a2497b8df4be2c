package requests

import (
	"github.com/shopspring/decimal"

	"talentbridge/marketplace-api/internal/domain/contract"
	"talentbridge/marketplace-api/internal/domain/mission"
	"talentbridge/marketplace-api/internal/domain/proposal"
	"talentbridge/marketplace-api/internal/domain/user"
)

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	FullName     *string `json:"fullName,omitempty" example:"Grace Hopper"`
	ProfileImage *string `json:"profileImage,omitempty" example:"https://cdn.example.com/grace.png"`
}

func (r UpdateProfileRequest) ToInput() user.UpdateProfileInput {
	return user.UpdateProfileInput{FullName: r.FullName, ProfileImage: r.ProfileImage}
}

// CreateMissionRequest publishes a mission.
type CreateMissionRequest struct {
	Title       string          `json:"title" binding:"required" example:"Go backend engineer"`
	Description string          `json:"description" example:"Build a messaging service"`
	Budget      decimal.Decimal `json:"budget" swaggertype:"string" example:"4500.00"`
}

func (r CreateMissionRequest) ToInput() mission.CreateInput {
	return mission.CreateInput{Title: r.Title, Description: r.Description, Budget: r.Budget}
}

// SubmitProposalRequest applies to a mission.
type SubmitProposalRequest struct {
	CoverLetter string          `json:"coverLetter" binding:"required" example:"I have shipped three chat backends."`
	Rate        decimal.Decimal `json:"rate" swaggertype:"string" example:"65.00"`
}

func (r SubmitProposalRequest) ToInput() proposal.SubmitInput {
	return proposal.SubmitInput{CoverLetter: r.CoverLetter, Rate: r.Rate}
}

// SendContractRequest sends a contract to a talent.
type SendContractRequest struct {
	TalentID  string          `json:"talentId" binding:"required" example:"tal-1"`
	MissionID *string         `json:"missionId,omitempty"`
	Title     string          `json:"title" binding:"required" example:"Backend engagement"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"12000.00"`
	PDFURL    string          `json:"pdfUrl" binding:"required" example:"https://files.example.com/contracts/1.pdf"`
}

func (r SendContractRequest) ToInput() contract.SendInput {
	return contract.SendInput{
		TalentID:  r.TalentID,
		MissionID: r.MissionID,
		Title:     r.Title,
		Amount:    r.Amount,
		PDFURL:    r.PDFURL,
	}
}
