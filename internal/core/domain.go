package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryGeneral    Category = "general"
	CategoryAirbnb     Category = "airbnb"
	CategoryVuelos     Category = "vuelos"
	CategoryComida     Category = "comida"
	CategoryTransporte Category = "transporte"
	CategoryOtro       Category = "otro"
)

type (
	// Category classifies an expense. The set is fixed; unknown values are rejected.
	Category string

	// Person is a member of the trip group.
	Person struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Expense is a shared cost recorded in the base currency (BRL) and paid
	// by exactly one person.
	Expense struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		AmountBRL   float64   `json:"amountBRL"`
		PaidBy      string    `json:"paidBy"`
		Category    Category  `json:"category"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// ImportantItem is a note the group wants to keep around (a booking link,
	// a reservation code). The amount is optional.
	ImportantItem struct {
		ID          string    `json:"id"`
		Link        string    `json:"link"`
		Information string    `json:"information"`
		AmountBRL   *float64  `json:"amountBRL"`
		AddedBy     string    `json:"addedBy"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// ExchangeRates is the value of 1 BRL expressed in USD and ARS.
	// Fallback marks a snapshot built from the static pair after every
	// live provider failed.
	ExchangeRates struct {
		USD       float64   `json:"USD"`
		ARS       float64   `json:"ARS"`
		UpdatedAt time.Time `json:"updatedAt"`
		Fallback  bool      `json:"fallback,omitempty"`
	}
)

var (
	ErrEmptyName        = errors.New("name required")
	ErrEmptyDescription = errors.New("description required")
	ErrEmptyInformation = errors.New("information required")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrMissingPayer     = errors.New("paidBy required")
	ErrInvalidCategory  = errors.New("invalid category")
)

// IsValid reports whether c belongs to the fixed category set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryAirbnb, CategoryVuelos, CategoryComida, CategoryTransporte, CategoryOtro:
		return true
	default:
		return false
	}
}

func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := ValidateAmount(e.AmountBRL); err != nil {
		return err
	}
	if strings.TrimSpace(e.PaidBy) == "" {
		return ErrMissingPayer
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

func (it ImportantItem) Validate() error {
	if strings.TrimSpace(it.Information) == "" {
		return ErrEmptyInformation
	}
	if it.AmountBRL != nil {
		if err := ValidateAmount(*it.AmountBRL); err != nil {
			return err
		}
	}
	return nil
}
