package postgres

import (
	"context"
	"errors"
	"fmt"

	"momo-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CustomerRepo implements ports.CustomerRepository.
type CustomerRepo struct {
	pool Pool
}

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(pool Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

const customerColumns = `id, full_name, email, role, status, phone_prefix, phone_number, hashed_pin`

// Create inserts a new customer into the database.
func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (id, full_name, email, role, status, phone_prefix, phone_number, hashed_pin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.User.ID, c.User.FullName, c.User.Email, string(c.User.Role), string(c.User.Status),
		c.Phone.Prefix, c.Phone.Number, c.HashedPin,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID fetches a customer by user id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(r.pool.QueryRow(ctx, query, id), "get customer by id")
}

// GetByEmail fetches a customer by email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	return r.scanCustomer(r.pool.QueryRow(ctx, query, email), "get customer by email")
}

// GetByPhoneNumber fetches a customer by the E.164 concatenation of prefix
// and number.
func (r *CustomerRepo) GetByPhoneNumber(ctx context.Context, fullNumber string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_prefix || phone_number = $1`
	return r.scanCustomer(r.pool.QueryRow(ctx, query, fullNumber), "get customer by phone")
}

func (r *CustomerRepo) scanCustomer(row pgx.Row, op string) (*domain.Customer, error) {
	var (
		c      domain.Customer
		role   string
		status string
	)
	err := row.Scan(
		&c.User.ID, &c.User.FullName, &c.User.Email, &role, &status,
		&c.Phone.Prefix, &c.Phone.Number, &c.HashedPin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.User.Role = domain.Role(role)
	c.User.Status = domain.UserStatus(status)
	return &c, nil
}
