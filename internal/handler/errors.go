package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/curve"
)

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrAmountRequired is returned when the amount parameter is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount is required")

// ErrInvalidAmountFormat is returned when the amount cannot be parsed as a
// base-10 unsigned 256-bit integer.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrAmountNonPositive is returned when the amount is zero.
var ErrAmountNonPositive = fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")

// ErrDirectionRequired is returned when zero_for_one is missing.
var ErrDirectionRequired = fiber.NewError(fiber.StatusBadRequest, "zero_for_one is required")

// ErrInvalidDirection is returned when zero_for_one is not a boolean.
var ErrInvalidDirection = fiber.NewError(fiber.StatusBadRequest, "invalid zero_for_one")

// ErrQuoteFailedInternal signals a generic server-side quoting error.
var ErrQuoteFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "quote failed")

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

// NewQuoteError maps a quote failure to an HTTP error carrying its kind.
func NewQuoteError(kind curve.ErrorKind, err error) error {
	status := fiber.StatusBadRequest
	if kind == curve.KindPoolNotFound {
		status = fiber.StatusNotFound
	}
	return fiber.NewError(status, string(kind)+": "+err.Error())
}
