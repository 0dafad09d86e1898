package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	bookingrepo "onetracker/database/repository/booking"
	"onetracker/models"
	"onetracker/services/availability"
	bookingsvc "onetracker/services/booking"
	"onetracker/utils"

	"go.uber.org/zap"
)

// Dialogue drives the slot-filling booking conversation. Each Advance call
// consumes one user message and produces a new draft value (or ends the
// dialogue) plus the reply to send back.
type Dialogue struct {
	Availability availability.Service
	Bookings     bookingsvc.Service
}

// transition is the outcome of one state-machine step. A nil draft means the
// dialogue has ended and the session draft must be discarded.
type transition struct {
	draft *models.BookingDraft
	reply string
}

func stay(d models.BookingDraft, reply string) transition {
	return transition{draft: &d, reply: reply}
}

func end(reply string) transition {
	return transition{reply: reply}
}

// NewDraft starts a booking dialogue at the timezone step. The availability
// snapshot is deliberately not taken yet; it is computed once the timezone
// arrives.
func NewDraft() *models.BookingDraft {
	return &models.BookingDraft{Step: models.StepCollectTimezone}
}

// Advance is total over (step, input): every pair yields either a valid
// transition or a same-state validation reply, and an unrecognizable step
// ends the dialogue instead of wedging the session.
func (d *Dialogue) Advance(ctx context.Context, draft models.BookingDraft, input string) transition {
	switch draft.Step {
	case models.StepCollectTimezone:
		return d.collectTimezone(ctx, draft, input)
	case models.StepChooseSlot:
		return chooseSlot(draft, input)
	case models.StepCollectName:
		draft.Name = input
		draft.Step = models.StepCollectEmail
		return stay(draft, ReplyAskEmail)
	case models.StepCollectEmail:
		if !strings.Contains(input, "@") {
			return stay(draft, ReplyInvalidEmail)
		}
		draft.WorkEmail = input
		draft.Step = models.StepCollectBusiness
		return stay(draft, ReplyAskBusiness)
	case models.StepCollectBusiness:
		draft.BusinessName = input
		draft.Step = models.StepCollectContact
		return stay(draft, ReplyAskContact)
	case models.StepCollectContact:
		if !isDigits(input) {
			return stay(draft, ReplyInvalidContact)
		}
		draft.ContactNumber = input
		draft.Step = models.StepCollectMessage
		return stay(draft, ReplyAskMessage)
	case models.StepCollectMessage:
		return d.finalize(ctx, draft, input)
	default:
		utils.GetLogger().Warn("dialogue in unknown step, ending",
			zap.String("step", string(draft.Step)))
		return end(ReplyBookingFailed)
	}
}

func (d *Dialogue) collectTimezone(ctx context.Context, draft models.BookingDraft, input string) transition {
	if input == "" {
		return stay(draft, ReplyInvalidTimezone)
	}
	if _, err := time.LoadLocation(input); err != nil {
		return stay(draft, ReplyInvalidTimezone)
	}

	days, err := d.Availability.Snapshot(ctx)
	if err != nil {
		utils.GetLogger().Error("availability snapshot failed", zap.Error(err))
		return end(ReplyBookingFailed)
	}

	slots := availability.Flatten(days)
	if len(slots) == 0 {
		return end(ReplyNoSlots)
	}

	draft.Timezone = input
	draft.Availability = days
	draft.Step = models.StepChooseSlot
	return stay(draft, ReplyAvailableSlots(slots))
}

func chooseSlot(draft models.BookingDraft, input string) transition {
	slots := availability.Flatten(draft.Availability)
	if len(slots) == 0 {
		// Snapshot missing; the dialogue cannot validate a choice.
		return end(ReplyBookingFailed)
	}

	for _, slot := range slots {
		if slot == input {
			draft.BookingDatetime = slot
			draft.Step = models.StepCollectName
			return stay(draft, ReplyAskName)
		}
	}
	return stay(draft, ReplyInvalidSlot)
}

func (d *Dialogue) finalize(ctx context.Context, draft models.BookingDraft, input string) transition {
	logger := utils.GetLogger()

	at, err := time.Parse(time.RFC3339, draft.BookingDatetime)
	if err != nil {
		logger.Error("draft slot unparsable at finalization",
			zap.String("slot", draft.BookingDatetime), zap.Error(err))
		return end(ReplyBookingFailed)
	}

	draft.Message = input
	var message *string
	if draft.Message != "" {
		message = &draft.Message
	}

	_, err = d.Bookings.Create(ctx, bookingsvc.CreateBookingInput{
		Name:            draft.Name,
		BusinessName:    draft.BusinessName,
		WorkEmail:       draft.WorkEmail,
		ContactNumber:   draft.ContactNumber,
		BookingDatetime: at,
		Message:         message,
		Timezone:        draft.Timezone,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingrepo.ErrSlotTaken):
			return end("Booking failed: slot already booked.")
		case errors.Is(err, bookingsvc.ErrPastBooking):
			return end("Booking failed: past booking not allowed.")
		case errors.Is(err, bookingsvc.ErrInvalidSlot):
			return end("Booking failed: invalid time slot.")
		case errors.Is(err, bookingsvc.ErrMissingZone):
			return end("Booking failed: timezone required.")
		default:
			logger.Error("booking creation failed at finalization", zap.Error(err))
			return end(ReplyBookingFailed)
		}
	}
	return end(ReplyBookingSuccess)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
