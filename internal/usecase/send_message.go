package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// SendMessageUseCase envia um texto livre ao telefone do prospect via relay.
//
// Exactly one relay call per Execute. Retrying is left to the caller: a
// failed send returns a DispatchError that still carries the message text.
type SendMessageUseCase struct {
	Prospects ProspectFinder
	Relay     Relay
}

func NewSendMessageUseCase(prospects ProspectFinder, relay Relay) *SendMessageUseCase {
	return &SendMessageUseCase{
		Prospects: prospects,
		Relay:     relay,
	}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, input SendMessageInput) (*SendMessageOutput, error) {
	if errs := ValidateMessageInput(input); len(errs) > 0 {
		return nil, joinValidation(errs)
	}

	prospect, ok := uc.Prospects.Prospect(input.ProspectID)
	if !ok {
		return nil, ValidationError{"prospect_id", "is not a known prospect"}
	}
	if !isValidPhoneNumber(prospect.Phone) {
		return nil, ValidationError{"phone", "prospect has no valid phone number"}
	}

	msg := entity.OutboundMessage{
		To:   NormalizePhone(prospect.Phone),
		Body: input.Message,
	}

	deliveryID, err := uc.Relay.SendText(ctx, msg)
	if err != nil {
		log.Printf("❌ WhatsApp relay failed for prospect %s: %v", prospect.ID, err)
		return nil, &DispatchError{
			ProspectID: prospect.ID,
			Message:    input.Message,
			Err:        err,
		}
	}

	log.Printf("✅ Message %s relayed to %s (%s)", deliveryID, prospect.BusinessName, msg.To)

	return &SendMessageOutput{
		DeliveryID: deliveryID,
		To:         msg.To,
	}, nil
}
