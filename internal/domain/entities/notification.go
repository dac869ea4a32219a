package entities

// Notification is an outbound message to a quote owner. Delivery is at-most-once.
type Notification struct {
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}
