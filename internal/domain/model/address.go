package model

// Address is stored inline on Users and copied onto Orders at checkout.
type Address struct {
	StreetAddress *string `gorm:"column:street_address;type:varchar(255)" json:"street_address"`
	City          *string `gorm:"column:city;type:varchar(100)" json:"city"`
	PostalCode    *string `gorm:"column:postal_code;type:varchar(20)" json:"postal_code"`
	Country       *string `gorm:"column:country;type:varchar(100)" json:"country"`
}

// Snapshot returns a deep copy so later profile edits never reach an order.
func (a Address) Snapshot() Address {
	return Address{
		StreetAddress: cloneString(a.StreetAddress),
		City:          cloneString(a.City),
		PostalCode:    cloneString(a.PostalCode),
		Country:       cloneString(a.Country),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
