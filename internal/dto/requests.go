package dto

// SignUpRequest represents a sign-up request
type SignUpRequest struct {
	Document string `json:"document" binding:"required,document"`
	Names    string `json:"names" binding:"required,min=2,max=32,personname"`
	Email    string `json:"email" binding:"required,identifier"`
	Password string `json:"password" binding:"required,alphanum,min=8,max=22"`
	Sector   string `json:"sector" binding:"omitempty,max=22"`
	Plan     string `json:"plan" binding:"omitempty,oneof=basic professional enterprise"`
	Code     string `json:"code" binding:"omitempty,len=6,alphanum"`
}

// DefaultPlan is the catalog plan assigned when none is requested
const DefaultPlan = "basic"

// SignInRequest represents a sign-in request; identifier is an email, phone or document
type SignInRequest struct {
	Identifier string `json:"identifier" binding:"required,identifier"`
	Password   string `json:"password" binding:"required"`
}

// RecoverParams is the path of a recovery request
type RecoverParams struct {
	Identifier string `uri:"identifier" binding:"required,identifier"`
}

// CodeParams is the path of a recovery code validation
type CodeParams struct {
	Code string `uri:"code" binding:"required,uuid4"`
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Code     string `json:"code" binding:"required,uuid4"`
	Password string `json:"password" binding:"required,alphanum,min=8,max=22"`
}

// UpdateProfileRequest carries account and profile fields to change; absent
// fields keep their stored value
type UpdateProfileRequest struct {
	Document         *string `json:"document" binding:"omitempty,document"`
	PaternalSurnames *string `json:"paternalSurnames" binding:"omitempty,min=2,max=32"`
	MaternalSurnames *string `json:"maternalSurnames" binding:"omitempty,min=2,max=32"`
	Names            *string `json:"names" binding:"omitempty,min=2,max=32,personname"`
	Birthday         *string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	Gender           *string `json:"gender" binding:"omitempty,oneof=male female"`
	Phone            *string `json:"phone" binding:"omitempty,min=6,max=15,numeric"`
	Biography        *string `json:"biography" binding:"omitempty,max=500"`
	Timezone         *string `json:"timezone" binding:"omitempty,timezone"`
	Language         *string `json:"language" binding:"omitempty,min=2,max=5"`
}

// AccountFields reports whether any field stored on the account is present
func (r *UpdateProfileRequest) AccountFields() bool {
	return r.Document != nil || r.PaternalSurnames != nil || r.MaternalSurnames != nil ||
		r.Names != nil || r.Birthday != nil || r.Gender != nil || r.Phone != nil
}

// ProfileFields reports whether any field stored on the profile is present
func (r *UpdateProfileRequest) ProfileFields() bool {
	return r.Biography != nil || r.Timezone != nil || r.Language != nil
}

// UpdateEmailRequest represents an email change
type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email,max=64"`
}

// UpdatePasswordRequest represents a password change by a signed-in owner
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,alphanum,min=8,max=22"`
}

type Coordinates struct {
	Latitude  string `json:"latitude" binding:"omitempty,latitude"`
	Longitude string `json:"longitude" binding:"omitempty,longitude"`
}

type Address struct {
	Street      string      `json:"street" binding:"omitempty,max=300"`
	City        string      `json:"city" binding:"omitempty,max=300"`
	State       string      `json:"state" binding:"omitempty,max=300"`
	Country     string      `json:"country" binding:"omitempty,max=300"`
	ZipCode     string      `json:"zipCode" binding:"omitempty,max=8"`
	Coordinates Coordinates `json:"coordinates"`
}

type Contact struct {
	Phone   string `json:"phone" binding:"omitempty,max=12"`
	Email   string `json:"email" binding:"omitempty,email"`
	Website string `json:"website" binding:"omitempty,max=300"`
}

// SettingsPatch switches individual storefront settings; nil keeps the stored value
type SettingsPatch struct {
	ShowStock               *bool `json:"showStock"`
	InfiniteStock           *bool `json:"infiniteStock"`
	ShowItemsWithPromotions *bool `json:"showItemsWithPromotions"`
	IsPublic                *bool `json:"isPublic"`
}

// UpdateStoreRequest carries store fields to change. Address and contact
// replace the stored value as a whole.
type UpdateStoreRequest struct {
	Name        *string        `json:"name" binding:"omitempty,min=2,max=32"`
	Description *string        `json:"description" binding:"omitempty,max=500"`
	Address     *Address       `json:"address"`
	Contact     *Contact       `json:"contact"`
	Settings    *SettingsPatch `json:"settings"`
}

// UpdateSectorRequest switches the store to another catalog sector
type UpdateSectorRequest struct {
	Sector string `json:"sector" binding:"required,max=22"`
}
