package domain

// Email is an outbound message handed to the background mail queue.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}
