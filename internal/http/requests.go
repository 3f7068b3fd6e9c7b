package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// amountField accepts an amount as either a JSON number or a numeric
// string, so 12.5 and "12.5" both work and neither takes the float64
// round trip.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	*a = amountField(strings.Trim(string(b), `"`))
	return nil
}

func (a amountField) String() string { return string(a) }

type createExpenseRequest struct {
	Amount   amountField `json:"amount" validate:"required"`
	Date     string      `json:"date" validate:"required"`
	Category string      `json:"category" validate:"required"`
	Notes    string      `json:"notes"`
}

type updateExpenseRequest struct {
	Amount   *amountField `json:"amount"`
	Category *string      `json:"category"`
	Notes    *string      `json:"notes"`
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type renameCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type reclassifyRequest struct {
	OldCategory string `json:"oldCategory" validate:"required"`
	NewCategory string `json:"newCategory" validate:"required"`
}

// decodeBody parses and validates a JSON request body.
func (s *Server) decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return s.validate.Struct(v)
}
