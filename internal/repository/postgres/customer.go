package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"

	"github.com/google/uuid"
)

const customerColumns = `id, email, COALESCE(full_name, ''), COALESCE(phone, ''), COALESCE(password_hash, ''), role, is_guest, created_on, updated_on`

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := row.Scan(&c.ID, &c.Email, &c.FullName, &c.Phone, &c.PasswordHash, &c.Role, &c.IsGuest, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	logger.EnterMethod("customerRepository.Create", "email", c.Email, "guest", c.IsGuest)

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Role == "" {
		c.Role = domain.CustomerRoleCustomer
	}
	now := time.Now().UTC()
	c.CreatedOn = now
	c.UpdatedOn = now

	query := `INSERT INTO customers (id, email, full_name, phone, password_hash, role, is_guest, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Email, c.FullName, c.Phone, c.PasswordHash, c.Role, c.IsGuest, c.CreatedOn, c.UpdatedOn)
	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrEmailInUse
		}
		logger.ExitMethodWithError("customerRepository.Create", err, "email", c.Email)
		return err
	}

	logger.ExitMethod("customerRepository.Create", "customerID", c.ID)
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE LOWER(email) = LOWER($1)`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	c.UpdatedOn = time.Now().UTC()
	query := `UPDATE customers SET email=$1, full_name=$2, phone=$3, password_hash=$4, role=$5, is_guest=$6, updated_on=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, c.Email, c.FullName, c.Phone, c.PasswordHash, c.Role, c.IsGuest, c.UpdatedOn, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailInUse
		}
		return err
	}
	return expectOneRow(res)
}

// List pages through customers, optionally filtered by a case-insensitive match on name or email.
func (r *customerRepository) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	logger.EnterMethod("customerRepository.List", "query", query, "page", page, "pageSize", pageSize)

	where := ""
	args := []any{}
	if query != "" {
		where = ` WHERE (full_name ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+query+"%")
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM customers`+where, args...).Scan(&count); err != nil {
		logger.ExitMethodWithError("customerRepository.List", err)
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	listQuery := fmt.Sprintf(`SELECT %s FROM customers%s ORDER BY created_on DESC LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		logger.ExitMethodWithError("customerRepository.List", err)
		return nil, 0, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	logger.ExitMethod("customerRepository.List", "count", len(customers), "total", count)
	return customers, count, nil
}
