package entity

import "time"

type Contact struct {
	ID            int64      `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	ContactName   string     `json:"contact_name" db:"contact_name"`
	CompanyName   string     `json:"company_name" db:"company_name"`
	Phone         string     `json:"phone,omitempty" db:"phone"`
	DemoScheduled bool       `json:"demo_scheduled" db:"demo_scheduled"`
	DemoDate      *time.Time `json:"demo_date,omitempty" db:"demo_date"`
	DemoCompleted bool       `json:"demo_completed" db:"demo_completed"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
