package domain

import "time"

type CustomerRole string

const (
	CustomerRoleCustomer CustomerRole = "customer"
	CustomerRoleAdmin    CustomerRole = "admin"
)

type Customer struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	FullName     string       `json:"full_name"`
	Phone        string       `json:"phone"`
	PasswordHash string       `json:"-"`
	Role         CustomerRole `json:"role"`
	IsGuest      bool         `json:"is_guest"`
	CreatedOn    time.Time    `json:"created_on"`
	UpdatedOn    time.Time    `json:"updated_on"`
}

// Contact returns the contact details used to pre-fill a booking.
func (c *Customer) Contact() Contact {
	return Contact{FullName: c.FullName, Email: c.Email, Phone: c.Phone}
}
