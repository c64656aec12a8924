package domain

import (
	"regexp"

	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
)

// UserStatus is the account standing of a user.
type UserStatus string

const (
	UserVerified  UserStatus = "VERIFIED"
	UserSuspended UserStatus = "SUSPENDED"
)

// Role distinguishes end customers from back-office users.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is the identity behind a customer.
type User struct {
	ID       uuid.UUID  `json:"id"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Role     Role       `json:"role"`
	Status   UserStatus `json:"status"`
}

// NewUser creates a verified user, validating name and email format.
func NewUser(id uuid.UUID, fullName, email string, role Role) (*User, error) {
	if fullName == "" {
		return nil, apperror.Validation("user full name cannot be blank")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.Validation("user email is invalid: " + email)
	}
	return &User{
		ID:       id,
		FullName: fullName,
		Email:    email,
		Role:     role,
		Status:   UserVerified,
	}, nil
}

func (u *User) IsActive() bool    { return u.Status == UserVerified }
func (u *User) IsSuspended() bool { return u.Status == UserSuspended }
func (u *User) Suspend()          { u.Status = UserSuspended }
func (u *User) Verify()           { u.Status = UserVerified }

var (
	phonePrefixPattern = regexp.MustCompile(`^\+\d{1,4}$`)
	phoneDigitsPattern = regexp.MustCompile(`^\d{8,15}$`)
)

// PhoneNumber is a validated international phone number, split into dialing
// prefix and subscriber number.
type PhoneNumber struct {
	Prefix string `json:"prefix"`
	Number string `json:"number"`
}

// NewPhoneNumber validates prefix (+ and 1-4 digits) and number (8-15 digits).
func NewPhoneNumber(prefix, number string) (PhoneNumber, error) {
	if !phonePrefixPattern.MatchString(prefix) {
		return PhoneNumber{}, apperror.ErrInvalidPhoneNumber(
			"phone prefix must match +<1-4 digits>, e.g. +225")
	}
	if !phoneDigitsPattern.MatchString(number) {
		return PhoneNumber{}, apperror.ErrInvalidPhoneNumber(
			"phone number must be 8 to 15 digits")
	}
	return PhoneNumber{Prefix: prefix, Number: number}, nil
}

// Full returns the E.164-style concatenation, e.g. +2250701020304.
func (p PhoneNumber) Full() string {
	return p.Prefix + p.Number
}

// Customer is a user who owns a wallet, reachable by phone number and
// authenticated by a hashed PIN. The customer id is the underlying user id.
type Customer struct {
	User      User        `json:"user"`
	Phone     PhoneNumber `json:"phone"`
	HashedPin string      `json:"-"`
}

// NewCustomer attaches a phone number and an already-hashed PIN to a user.
// PIN hashing happens at the service boundary, not in the domain.
func NewCustomer(user User, phone PhoneNumber, hashedPin string) (*Customer, error) {
	if hashedPin == "" {
		return nil, apperror.Validation("customer PIN hash cannot be blank")
	}
	return &Customer{User: user, Phone: phone, HashedPin: hashedPin}, nil
}

// ID returns the customer id (the owning user's id).
func (c *Customer) ID() uuid.UUID { return c.User.ID }

func (c *Customer) IsSuspended() bool { return c.User.IsSuspended() }
