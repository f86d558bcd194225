package usecase

import (
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var nonDigits = regexp.MustCompile(`\D`)

func ValidateStages(reg *entity.StageRegistry, input MoveInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.ProspectID) == "" {
		errors = append(errors, ValidationError{"prospect_id", "is required"})
	}
	if !reg.IsValid(input.SourceStage) {
		errors = append(errors, ValidationError{"source_stage", "is not a recognized stage"})
	}
	if !reg.IsValid(input.DestStage) {
		errors = append(errors, ValidationError{"dest_stage", "is not a recognized stage"})
	}

	return errors
}

// validateIndexes checks positions against the current columns.
// srcLen and destLen are the lengths before the move.
func validateIndexes(input MoveInput, srcLen, destLen int) []ValidationError {
	var errors []ValidationError

	if input.SourceIndex < 0 || input.SourceIndex >= srcLen {
		errors = append(errors, ValidationError{"source_index", "is out of range"})
	}

	maxDest := destLen
	if input.SourceStage == input.DestStage {
		maxDest = srcLen - 1
	}
	if input.DestIndex < 0 || input.DestIndex > maxDest {
		errors = append(errors, ValidationError{"dest_index", "is out of range"})
	}

	return errors
}

func ValidateMessageInput(input SendMessageInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.ProspectID) == "" {
		errors = append(errors, ValidationError{"prospect_id", "is required"})
	}
	if strings.TrimSpace(input.Message) == "" {
		errors = append(errors, ValidationError{"message", "must not be empty"})
	}

	return errors
}

// NormalizePhone strips everything but digits; the relay adds the channel prefix.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

func isValidPhoneNumber(phone string) bool {
	cleaned := NormalizePhone(phone)
	return len(cleaned) >= 8 && len(cleaned) <= 15
}

// joinValidation folds a list into a single error, the first one carrying the field.
func joinValidation(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	msg := errs[0].Message
	for _, e := range errs[1:] {
		msg += "; " + e.Field + " " + e.Message
	}
	return ValidationError{Field: errs[0].Field, Message: msg}
}
