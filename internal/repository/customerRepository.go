package repository

import (
	"context"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, name, driver_license, birth_date, address, phone`

func (r *CustomerRepository) InsertCustomer(ctx context.Context, c *domain.Customer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO customers (name, driver_license, birth_date, address, phone)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		c.Name, c.DriverLicense, c.BirthDate, c.Address, c.Phone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return id, nil
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, id int64, c *domain.Customer) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE customers
		 SET name = $1, driver_license = $2, birth_date = $3, address = $4, phone = $5
		 WHERE id = $6`,
		c.Name, c.DriverLicense, c.BirthDate, c.Address, c.Phone, id,
	)
	if err != nil {
		return fmt.Errorf("update customer %d: %w", id, err)
	}
	return requireAffected(tag, "customer", id)
}

// DeleteCustomer leaves the customer's orders in place.
func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	return requireAffected(tag, "customer", id)
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return c, nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.DriverLicense, &c.BirthDate, &c.Address, &c.Phone); err != nil {
		return nil, err
	}
	return &c, nil
}
