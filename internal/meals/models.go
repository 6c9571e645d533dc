package meals

import (
	"database/sql/driver"
	"fmt"
)

// Flag is a boolean stored and rendered as 0/1
type Flag bool

// MarshalJSON renders the flag as 1 or 0
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Value implements driver.Valuer
func (f Flag) Value() (driver.Value, error) {
	if f {
		return int64(1), nil
	}
	return int64(0), nil
}

// Scan implements sql.Scanner for SMALLINT and BOOLEAN columns
func (f *Flag) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*f = v != 0
	case bool:
		*f = Flag(v)
	default:
		return fmt.Errorf("cannot scan %T into Flag", src)
	}
	return nil
}

// Meal is a meal record owned by one user. Date is epoch milliseconds.
type Meal struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        int64  `json:"date"`
	Diet        Flag   `json:"diet"`
}

// NewMeal holds validated fields for a meal insert
type NewMeal struct {
	Name        string
	Description string
	Date        int64
	Diet        bool
}

// MealPatch holds the fields of a partial update; nil means untouched
type MealPatch struct {
	Name        *string
	Description *string
	Date        *int64
	Diet        *bool
}

// IsEmpty reports whether the patch changes nothing
func (p MealPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Date == nil && p.Diet == nil
}

// CreateMealRequest represents the request body for creating a meal.
// The owner comes from the session, never from the body.
type CreateMealRequest struct {
	Name        string     `json:"name" binding:"required,notblank"`
	Description string     `json:"description" binding:"required,notblank"`
	Date        *DateInput `json:"date" binding:"required"`
	Diet        *bool      `json:"diet" binding:"required"`
}

// UpdateMealRequest represents the request body for a partial update
type UpdateMealRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,notblank"`
	Description *string    `json:"description,omitempty" binding:"omitempty,notblank"`
	Date        *DateInput `json:"date,omitempty"`
	Diet        *bool      `json:"diet,omitempty"`
}

// MealResponse wraps a single meal
type MealResponse struct {
	Meal *Meal `json:"meal"`
}

// MealsResponse wraps a list of meals
type MealsResponse struct {
	Meals []Meal `json:"meals"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
