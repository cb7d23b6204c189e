package catalog

// CreateEditionInput carries a new catalog entry.
type CreateEditionInput struct {
	Title       string
	Writer      string
	Translation string
	Pages       int
	Stock       int
	Description *string
	ImageURLs   []string
}

// UpdateEditionInput updates catalog fields; nil pointers leave the current
// value untouched. Stock is managed by Restock/SetStock, not here.
type UpdateEditionInput struct {
	Title       *string
	Writer      *string
	Translation *string
	Pages       *int
	Description *string
	ImageURLs   []string
	ClearImages bool
}

// ListParams filters the edition listing.
type ListParams struct {
	Translation string
	InStockOnly bool
}
