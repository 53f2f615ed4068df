// Package models defines the persistence structs for VendorHub entities:
// vendors, products, categories, banners, certificates, enquiries, admin
// users, payments, posts, and the vendor status audit trail.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// URLList is an ordered list of asset URLs stored as a JSONB column.
// Order is preserved so galleries render in the sequence they were uploaded.
type URLList []string

// Value implements driver.Valuer
func (u URLList) Value() (driver.Value, error) {
	if u == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(u)
}

// Scan implements sql.Scanner
func (u *URLList) Scan(src interface{}) error {
	if src == nil {
		*u = URLList{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into URLList", src)
	}
	if len(b) == 0 {
		*u = URLList{}
		return nil
	}
	return json.Unmarshal(b, u)
}
