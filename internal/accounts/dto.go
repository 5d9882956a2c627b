package accounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	"github.com/dkellner/audiohaus-backend/pkg/enums"
)

// RegisterInput is the customer sign-up request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// LoginInput is the credential pair for sign-in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds the mutable profile fields.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// AddressInput is the create/update shape for a saved address.
type AddressInput struct {
	Street     string
	City       string
	PostalCode string
	Country    string
	Phone      string
	IsDefault  bool
}

// UserDTO is the user wire shape. The password hash never leaves the
// service layer.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Phone       *string        `json:"phone,omitempty"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AddressDTO is the saved address wire shape.
type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthResult pairs the minted token with the authenticated user.
type AuthResult struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// NewUserDTO maps a user row onto the wire shape.
func NewUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// NewAddressDTO maps an address row onto the wire shape.
func NewAddressDTO(address *models.Address) AddressDTO {
	return AddressDTO{
		ID:         address.ID,
		Street:     address.Street,
		City:       address.City,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		Phone:      address.Phone,
		IsDefault:  address.IsDefault,
		CreatedAt:  address.CreatedAt,
	}
}
