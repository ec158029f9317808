package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Admin struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Role         sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Booking struct {
	ID            uuid.UUID
	Reference     string
	ServiceType   string
	Status        string
	CustomerName  string
	CustomerPhone string
	PickupAddress string
	DropAddress   sql.NullString
	VendorName    sql.NullString
	Amount        sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
