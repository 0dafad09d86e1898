package chat

import "strings"

// Fixed reply text for every dialogue outcome.
const (
	ReplyAskTimezone     = "Please provide your timezone (Example: Asia/Kolkata)"
	ReplyInvalidTimezone = "Invalid timezone."
	ReplyNoSlots         = "No slots available in next 10 days."
	ReplyInvalidSlot     = "Invalid or unavailable slot."
	ReplyAskName         = "Please provide your full name."
	ReplyAskEmail        = "Please provide your work email."
	ReplyInvalidEmail    = "Please enter a valid email address."
	ReplyAskBusiness     = "Please provide your business name."
	ReplyAskContact      = "Please provide your contact number."
	ReplyInvalidContact  = "Contact number should contain digits only."
	ReplyAskMessage      = "Any additional message?"
	ReplyBookingSuccess  = "🎉 Demo booked successfully! Confirmation email sent."
	ReplyBookingFailed   = "Something went wrong while booking."
	ReplyCancelled       = "Booking session cancelled."
	ReplyAIUnavailable   = "AI is currently unavailable."
)

// ReplyAvailableSlots renders the slot-selection prompt for a snapshot.
func ReplyAvailableSlots(slots []string) string {
	return "Available slots:\n" + strings.Join(slots, "\n") + "\n\nPlease select one slot."
}
