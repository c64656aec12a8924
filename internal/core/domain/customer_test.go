package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser(uuid.New(), "Awa Diabaté", "awa@example.com", RoleCustomer)
	require.NoError(t, err)
	return u
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
		wantErr  bool
	}{
		{"valid", "Awa Diabaté", "awa@example.com", false},
		{"blank name", "", "awa@example.com", true},
		{"missing at", "Awa", "awa.example.com", true},
		{"missing domain dot", "Awa", "awa@example", true},
		{"spaces in email", "Awa", "a wa@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(uuid.New(), tt.fullName, tt.email, RoleCustomer)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUser_SuspendAndVerify(t *testing.T) {
	u := newTestUser(t)
	assert.True(t, u.IsActive())
	assert.False(t, u.IsSuspended())

	u.Suspend()
	assert.True(t, u.IsSuspended())
	assert.False(t, u.IsActive())

	u.Verify()
	assert.True(t, u.IsActive())
}

func TestNewPhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		number  string
		wantErr bool
	}{
		{"valid ivorian", "+225", "0701020304", false},
		{"prefix without plus", "225", "0701020304", true},
		{"prefix too long", "+12345", "0701020304", true},
		{"letters in number", "+225", "07010A0304", true},
		{"number too short", "+225", "0701020", true},
		{"number too long", "+225", "0701020304050607", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPhoneNumber(tt.prefix, tt.number)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPhoneNumber_Full(t *testing.T) {
	p, err := NewPhoneNumber("+225", "0701020304")
	require.NoError(t, err)
	assert.Equal(t, "+2250701020304", p.Full())
}

func TestNewCustomer(t *testing.T) {
	u := newTestUser(t)
	phone, _ := NewPhoneNumber("+225", "0701020304")

	c, err := NewCustomer(*u, phone, "$argon2id$hash")
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.ID())
	assert.False(t, c.IsSuspended())

	_, err = NewCustomer(*u, phone, "")
	assert.Error(t, err, "blank PIN hash is rejected")
}

func TestOtp_Lifecycle(t *testing.T) {
	now := time.Now()
	otp, err := NewOtp("123456", 5*time.Minute, now)
	require.NoError(t, err)

	assert.True(t, otp.Matches("123456"))
	assert.False(t, otp.Matches("654321"))

	assert.False(t, otp.IsExpired(now.Add(4*time.Minute)))
	assert.True(t, otp.IsExpired(now.Add(6*time.Minute)))
}

func TestNewOtp_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewOtp("", time.Minute, now)
	assert.Error(t, err)

	_, err = NewOtp("123456", 0, now)
	assert.Error(t, err)
}
