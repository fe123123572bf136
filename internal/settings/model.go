package settings

import "time"

// BusinessSettings is the single-row business profile. The business
// name participates in receipt verification codes, so renaming the
// business invalidates codes printed before the change.
type BusinessSettings struct {
	ID            int64     `json:"id"`
	BusinessName  string    `json:"business_name"`
	Address       string    `json:"address,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Currency      string    `json:"currency"`
	ReceiptFooter string    `json:"receipt_footer,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpdateSettingsRequest mutates the business profile.
type UpdateSettingsRequest struct {
	BusinessName  *string `json:"business_name,omitempty" validate:"omitempty,min=1,max=100"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=255"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Currency      *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	ReceiptFooter *string `json:"receipt_footer,omitempty" validate:"omitempty,max=255"`
}
