package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// CreateProspectUseCase is the intake path. The new prospect reaches the board
// through the live query, never by touching the pipeline directly.
type CreateProspectUseCase struct {
	Repo     ProspectCreator
	Registry *entity.StageRegistry
}

func NewCreateProspectUseCase(repo ProspectCreator, reg *entity.StageRegistry) *CreateProspectUseCase {
	return &CreateProspectUseCase{Repo: repo, Registry: reg}
}

func ValidateCreateProspectInput(reg *entity.StageRegistry, input CreateProspectInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.BusinessName) == "" {
		errors = append(errors, ValidationError{"businessName", "is required"})
	}
	if strings.TrimSpace(input.ContactPerson) == "" {
		errors = append(errors, ValidationError{"contactPerson", "is required"})
	}
	if strings.TrimSpace(input.AgentID) == "" {
		errors = append(errors, ValidationError{"agent", "is required"})
	}
	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}
	if input.Stage != "" && !reg.IsValid(input.Stage) {
		errors = append(errors, ValidationError{"state", "is not a recognized stage"})
	}

	return errors
}

func (uc *CreateProspectUseCase) Execute(ctx context.Context, input CreateProspectInput) (*entity.Prospect, error) {
	if errs := ValidateCreateProspectInput(uc.Registry, input); len(errs) > 0 {
		return nil, joinValidation(errs)
	}

	stage := input.Stage
	if stage == "" {
		stage = uc.Registry.Initial()
	}

	prospect := &entity.Prospect{
		BusinessName:  strings.TrimSpace(input.BusinessName),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		AgentID:       input.AgentID,
		Phone:         input.Phone,
		Email:         input.Email,
		Stage:         stage,
		LogoURL:       input.LogoURL,
	}

	if err := uc.Repo.Create(ctx, prospect); err != nil {
		return nil, fmt.Errorf("failed to create prospect: %w", err)
	}

	return prospect, nil
}

func (uc *CreateProspectUseCase) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ValidationError{"id", "is required"}
	}
	return uc.Repo.Delete(ctx, id)
}
