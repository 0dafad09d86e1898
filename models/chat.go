package models

// Step identifies the current stage of the booking dialogue.
type Step string

const (
	StepCollectTimezone Step = "collect_timezone"
	StepChooseSlot      Step = "choose_slot"
	StepCollectName     Step = "collect_name"
	StepCollectEmail    Step = "collect_email"
	StepCollectBusiness Step = "collect_business"
	StepCollectContact  Step = "collect_contact"
	StepCollectMessage  Step = "collect_message"
)

// ChatTurn is a single conversation entry, role "user" or "assistant".
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BookingDraft holds the partially collected booking while a dialogue is in
// progress. Each field is written exactly once, by the step that collects it.
// BookingDatetime is the RFC3339 slot string chosen from the snapshot; it is
// only parsed back into an instant at finalization.
type BookingDraft struct {
	Step            Step              `json:"step"`
	Timezone        string            `json:"timezone,omitempty"`
	Availability    []AvailabilityDay `json:"availability,omitempty"`
	BookingDatetime string            `json:"booking_datetime,omitempty"`
	Name            string            `json:"name,omitempty"`
	WorkEmail       string            `json:"work_email,omitempty"`
	BusinessName    string            `json:"business_name,omitempty"`
	ContactNumber   string            `json:"contact_number,omitempty"`
	Message         string            `json:"message,omitempty"`
}

// Session is the per-conversation scratch state, keyed by the caller-supplied
// session id. Turns feed the retrieval-augmented path only; Draft exists only
// while a booking dialogue is active.
type Session struct {
	Turns []ChatTurn    `json:"turns"`
	Draft *BookingDraft `json:"draft,omitempty"`
}
