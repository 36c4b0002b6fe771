package customers

import "time"

// Customer is a person who messaged the booking number at least once.
type Customer struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}
