package orders

import (
	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/pagination"
)

// PlaceOrderInput carries a public distribution request.
type PlaceOrderInput struct {
	FullName    string
	Email       string
	Phone       string
	CountryCode string
	Address     string
	City        string
	State       string
	PostalCode  string
	// Quantity is nil when the requester left it out; the service then
	// falls back to a single copy. An explicit zero is rejected.
	Quantity    *int
	Note        *string
	EditionID   *uuid.UUID
	Translation string
}

// ListParams filters the admin order listing.
type ListParams struct {
	Status *enums.OrderStatus
	Search string
	Page   pagination.Params
}

// ListResult is one page of orders plus the cursor for the next page.
type ListResult struct {
	Orders     []models.Order
	NextCursor string
	HasMore    bool
}
