package entity

// Customer is the phone-verified diner behind a credential.
type Customer struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name,omitempty"`
}

// DisplayName falls back to the phone number when no name is set.
func (c *Customer) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Name != "" {
		return c.Name
	}

	return c.PhoneNumber
}
