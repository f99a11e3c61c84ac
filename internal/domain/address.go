package domain

import "time"

// AddressType enumerates address labels.
type AddressType string

const (
	AddressTypeHome     AddressType = "home"
	AddressTypeWork     AddressType = "work"
	AddressTypeBilling  AddressType = "billing"
	AddressTypeShipping AddressType = "shipping"
	AddressTypeOther    AddressType = "other"
)

// Valid reports whether the address type is known.
func (t AddressType) Valid() bool {
	switch t {
	case AddressTypeHome, AddressTypeWork, AddressTypeBilling, AddressTypeShipping, AddressTypeOther:
		return true
	}
	return false
}

// Address anchors a booking to a physical location. It belongs to exactly
// one user.
type Address struct {
	ID        string
	UserID    string
	Type      AddressType
	Street    string
	City      string
	State     string
	ZipCode   string
	CreatedAt time.Time
}
