package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/constructai/demobooking/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS contacts (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			contact_name VARCHAR(255) NOT NULL,
			company_name VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			demo_scheduled BOOLEAN DEFAULT false,
			demo_date TIMESTAMPTZ,
			demo_completed BOOLEAN DEFAULT false,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS demo_bookings (
			id SERIAL PRIMARY KEY,
			contact_id INTEGER NOT NULL REFERENCES contacts(id),
			demo_start TIMESTAMPTZ NOT NULL,
			duration_minutes INTEGER NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			contact_method VARCHAR(20) NOT NULL DEFAULT 'video',
			notes TEXT,
			meeting_link VARCHAR(255),
			notification_sent BOOLEAN DEFAULT false,
			reminder_sent BOOLEAN DEFAULT false,
			rescheduled_from INTEGER REFERENCES demo_bookings(id),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,

		// Авторитетная уникальность слота: не больше одного активного
		// бронирования на одно время начала. Отменённые и перенесённые
		// строки индекс не учитывает, слот освобождается сам.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_demo_bookings_active_start
			ON demo_bookings (demo_start)
			WHERE status IN ('scheduled', 'confirmed')`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_demo_bookings_contact_id ON demo_bookings(contact_id)`,
		`CREATE INDEX IF NOT EXISTS idx_demo_bookings_status ON demo_bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_demo_bookings_demo_start ON demo_bookings(demo_start)`,
		`CREATE INDEX IF NOT EXISTS idx_demo_bookings_notification ON demo_bookings(notification_sent) WHERE notification_sent = false`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
