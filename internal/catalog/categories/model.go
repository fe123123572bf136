package categories

import "time"

// Category groups products for browsing and plan-limit accounting.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ColorCode   string    `json:"color_code"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategoryRequest carries the fields for a new category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	ColorCode   string `json:"color_code" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon" validate:"max=50"`
}

// UpdateCategoryRequest mutates an existing category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
	ColorCode   *string `json:"color_code,omitempty" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=50"`
}
