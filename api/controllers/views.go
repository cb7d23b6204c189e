package controllers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
)

// View structs shape the public JSON for persistence models, which carry no
// json tags of their own. PasswordHash never leaves the admins view mapping.

type orderView struct {
	ID             uuid.UUID    `json:"id"`
	FullName       string       `json:"full_name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	CountryCode    string       `json:"country_code"`
	Address        string       `json:"address"`
	City           string       `json:"city"`
	State          string       `json:"state"`
	PostalCode     string       `json:"postal_code"`
	Quantity       int          `json:"quantity"`
	Note           *string      `json:"note,omitempty"`
	EditionID      *uuid.UUID   `json:"edition_id,omitempty"`
	Edition        *editionView `json:"edition,omitempty"`
	Translation    string       `json:"translation"`
	Status         string       `json:"status"`
	TrackingNumber *string      `json:"tracking_number,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func orderToView(order models.Order) orderView {
	view := orderView{
		ID:             order.ID,
		FullName:       order.FullName,
		Email:          order.Email,
		Phone:          order.Phone,
		CountryCode:    order.CountryCode,
		Address:        order.Address,
		City:           order.City,
		State:          order.State,
		PostalCode:     order.PostalCode,
		Quantity:       order.Quantity,
		Note:           order.Note,
		EditionID:      order.EditionID,
		Translation:    order.Translation,
		Status:         string(order.Status),
		TrackingNumber: order.TrackingNumber,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if order.Edition != nil {
		edition := editionToView(*order.Edition)
		view.Edition = &edition
	}
	return view
}

func ordersToViews(orders []models.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, orderToView(order))
	}
	return views
}

type editionView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Writer      string    `json:"writer"`
	Translation string    `json:"translation"`
	Pages       int       `json:"pages"`
	Stock       int       `json:"stock"`
	Description *string   `json:"description,omitempty"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func editionToView(edition models.Edition) editionView {
	urls := make([]string, 0, len(edition.Images))
	for _, image := range edition.Images {
		urls = append(urls, image.URL)
	}
	return editionView{
		ID:          edition.ID,
		Title:       edition.Title,
		Writer:      edition.Writer,
		Translation: edition.Translation,
		Pages:       edition.Pages,
		Stock:       edition.Stock,
		Description: edition.Description,
		ImageURLs:   urls,
		CreatedAt:   edition.CreatedAt,
		UpdatedAt:   edition.UpdatedAt,
	}
}

func editionsToViews(editions []models.Edition) []editionView {
	views := make([]editionView, 0, len(editions))
	for _, edition := range editions {
		views = append(views, editionToView(edition))
	}
	return views
}

type adminView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func adminToView(admin models.Admin) adminView {
	return adminView{
		ID:        admin.ID,
		Email:     admin.Email,
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
		Role:      string(admin.Role),
		CreatedAt: admin.CreatedAt,
		UpdatedAt: admin.UpdatedAt,
	}
}

func adminsToViews(adminsList []models.Admin) []adminView {
	views := make([]adminView, 0, len(adminsList))
	for _, admin := range adminsList {
		views = append(views, adminToView(admin))
	}
	return views
}

type activityView struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"event_type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	SentTo    string          `json:"sent_to"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func activitiesToViews(entries []models.NotificationActivity) []activityView {
	views := make([]activityView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, activityView{
			ID:        entry.ID,
			EventType: string(entry.EventType),
			Title:     entry.Title,
			Message:   entry.Message,
			Metadata:  entry.Metadata,
			SentTo:    entry.SentTo,
			Status:    string(entry.Status),
			CreatedAt: entry.CreatedAt,
		})
	}
	return views
}
