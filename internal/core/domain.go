package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as plain JSON numbers, matching what the
	// dashboard client expects.
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	// Date is a calendar date without a time component. It marshals as
	// "YYYY-MM-DD" in JSON and in store rows.
	Date struct {
		time.Time
	}

	// Principal identifies who recorded an expense. The service runs with a
	// single configured principal; swapping in real multi-user identity only
	// requires changing where this value comes from.
	Principal struct {
		ID   string
		Name string
	}

	Expense struct {
		ID           string          `json:"id"`
		Date         Date            `json:"date"`
		Amount       decimal.Decimal `json:"amount"`
		Category     string          `json:"category"`
		Notes        string          `json:"notes"`
		AddedByID    string          `json:"addedBy"`
		AddedByName  string          `json:"addedByName"`
		AddedAt      time.Time       `json:"addedAt"`
		LastModified time.Time       `json:"lastModified"`
	}

	// ExpensePatch carries the mutable subset of an expense. Nil fields are
	// left untouched by an update.
	ExpensePatch struct {
		Amount   *decimal.Decimal
		Category *string
		Notes    *string
	}

	Category struct {
		Name      string    `json:"name"`
		IsDefault bool      `json:"isDefault"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingDate     = errors.New("missing date")
	ErrMissingCategory = errors.New("missing category")
	ErrSameCategory    = errors.New("old and new categories are the same")

	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrForbidden     = errors.New("default categories cannot be modified")
	ErrCategoryInUse = errors.New("category is referenced by expenses")
)

// StoreError wraps a failure of the underlying row store. It surfaces
// verbatim to the API layer; no retry or recovery happens below it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewDate builds a Date in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrMissingCategory
	}
	return nil
}

// IsEmpty reports whether the patch touches no field at all.
func (p ExpensePatch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Notes == nil
}

// DefaultPrincipal is used when no identity is configured.
var DefaultPrincipal = Principal{ID: "1", Name: "Family User"}

// DefaultCategories is the seed set written once at store initialization.
// These are permanent: rename and delete always fail on them.
var DefaultCategories = []string{
	"Food",
	"Fuel",
	"Medicine",
	"Vegetables & Provisions",
	"Utilities",
	"Power",
	"Internet",
}
