package dto

import (
	"time"

	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/domain"
)

// ProfileSummary is returned by sign-up and sign-in
type ProfileSummary struct {
	PaternalSurnames *string `json:"paternalSurnames"`
	MaternalSurnames *string `json:"maternalSurnames"`
	Names            string  `json:"names"`
	Type             string  `json:"type"`
	ProfilePhoto     *string `json:"profilePhoto"`
	// AccessToken is only echoed in development
	AccessToken string `json:"accessToken,omitempty"`
}

// MessageResponse represents a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Code is the correlation code
// of an internal error; Detail is only filled in development.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Code    string              `json:"code,omitempty"`
	Detail  string              `json:"detail,omitempty"`
}

// AccountDetail is the owner's identity merged with profile settings
type AccountDetail struct {
	Document         string    `json:"document"`
	PaternalSurnames *string   `json:"paternalSurnames"`
	MaternalSurnames *string   `json:"maternalSurnames"`
	Names            string    `json:"names"`
	Birthday         *string   `json:"birthday"`
	Gender           *string   `json:"gender"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	Biography        *string   `json:"biography"`
	Timezone         string    `json:"timezone"`
	Language         string    `json:"language"`
	ProfilePhoto     *string   `json:"profilePhoto"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type StoreSettings struct {
	ShowStock               bool `json:"showStock"`
	InfiniteStock           bool `json:"infiniteStock"`
	ShowItemsWithPromotions bool `json:"showItemsWithPromotions"`
	IsPublic                bool `json:"isPublic"`
}

// StoreDetail is the store with its settings
type StoreDetail struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Sector      string             `json:"sector"`
	Terminology domain.Terminology `json:"terminology"`
	Address     Address            `json:"address"`
	Contact     Contact            `json:"contact"`
	Settings    StoreSettings      `json:"settings"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// SectorUpdated confirms a sector change with the new vocabulary
type SectorUpdated struct {
	Message     string             `json:"message"`
	Sector      string             `json:"sector"`
	Terminology domain.Terminology `json:"terminology"`
}
