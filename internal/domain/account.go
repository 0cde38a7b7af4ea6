package domain

import "time"

// AccountTypeBusiness is the type tag carried in tokens for store owners.
const AccountTypeBusiness = "business_account"

// Account represents a business owner identity
type Account struct {
	ID               string     `json:"id" db:"id"`
	Document         string     `json:"document" db:"document"`
	Names            string     `json:"names" db:"names"`
	PaternalSurnames *string    `json:"paternal_surnames" db:"paternal_surnames"`
	MaternalSurnames *string    `json:"maternal_surnames" db:"maternal_surnames"`
	Birthday         *time.Time `json:"birthday" db:"birthday"`
	Gender           *string    `json:"gender" db:"gender"`
	Email            string     `json:"email" db:"email"`
	Phone            *string    `json:"phone" db:"phone"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// AccountProfile holds presentation settings, one per account
type AccountProfile struct {
	ID           string    `json:"id" db:"id"`
	AccountID    string    `json:"account_id" db:"account_id"`
	Biography    *string   `json:"biography" db:"biography"`
	Timezone     string    `json:"timezone" db:"timezone"`
	Language     string    `json:"language" db:"language"`
	ProfilePhoto *string   `json:"profile_photo" db:"profile_photo"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

const (
	DefaultTimezone = "UTC"
	DefaultLanguage = "es"
	DefaultSector   = "restaurant"
)

// Terminology is the sector-specific vocabulary a store uses
type Terminology struct {
	Local string `json:"local,omitempty" yaml:"local"`
	Level string `json:"level,omitempty" yaml:"level"`
	Space string `json:"space,omitempty" yaml:"space"`
}

type Coordinates struct {
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

type Address struct {
	Street      string      `json:"street,omitempty"`
	City        string      `json:"city,omitempty"`
	State       string      `json:"state,omitempty"`
	Country     string      `json:"country,omitempty"`
	ZipCode     string      `json:"zip_code,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Contact struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// Store is the storefront owned by an account
type Store struct {
	ID          string      `json:"id" db:"id"`
	AccountID   string      `json:"account_id" db:"account_id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	Sector      string      `json:"sector" db:"sector"`
	Terminology Terminology `json:"terminology" db:"terminology"`
	Address     Address     `json:"address" db:"address"`
	Contact     Contact     `json:"contact" db:"contact"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// StoreSettings holds storefront display switches, one row per store
type StoreSettings struct {
	ID                      string    `json:"id" db:"id"`
	StoreID                 string    `json:"store_id" db:"store_id"`
	ShowStock               bool      `json:"show_stock" db:"show_stock"`
	InfiniteStock           bool      `json:"infinite_stock" db:"infinite_stock"`
	ShowItemsWithPromotions bool      `json:"show_items_with_promotions" db:"show_items_with_promotions"`
	IsPublic                bool      `json:"is_public" db:"is_public"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}
