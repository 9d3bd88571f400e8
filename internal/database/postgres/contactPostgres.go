package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/constructai/demobooking/internal/entity"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `
	id, email, contact_name, company_name, phone,
	demo_scheduled, demo_date, demo_completed, created_at`

func scanContact(row interface{ Scan(...interface{}) error }) (*entity.Contact, error) {
	var c entity.Contact
	var phone sql.NullString
	var demoDate sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.ContactName,
		&c.CompanyName,
		&phone,
		&c.DemoScheduled,
		&demoDate,
		&c.DemoCompleted,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Phone = phone.String
	if demoDate.Valid {
		c.DemoDate = &demoDate.Time
	}
	return &c, nil
}

func (r *contactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (email, contact_name, company_name, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		strings.ToLower(contact.Email),
		contact.ContactName,
		contact.CompanyName,
		contact.Phone,
		now,
	).Scan(&contact.ID)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	contact.CreatedAt = now
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id int64) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

func (r *contactRepository) GetByEmail(ctx context.Context, email string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE email = $1`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err == sql.ErrNoRows {
		return nil, entity.ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact by email: %w", err)
	}
	return c, nil
}
