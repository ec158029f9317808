package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

var bookingColumns = []string{
	"id", "reference", "service_type", "status", "customer_name",
	"customer_phone", "pickup_address", "drop_address", "vendor_name",
	"amount", "created_at", "updated_at",
}

const bookingReturning = `id, reference, service_type, status, customer_name,
	customer_phone, pickup_address, drop_address, vendor_name,
	amount, created_at, updated_at`

type CreateBookingParams struct {
	Reference     string
	ServiceType   string
	CustomerName  string
	CustomerPhone string
	PickupAddress string
	DropAddress   sql.NullString
	VendorName    sql.NullString
	Amount        sql.NullString
}

func (q *Queries) CreateBooking(ctx context.Context, arg CreateBookingParams) (Booking, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO bookings (reference, service_type, customer_name, customer_phone,
			pickup_address, drop_address, vendor_name, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookingReturning,
		arg.Reference, arg.ServiceType, arg.CustomerName, arg.CustomerPhone,
		arg.PickupAddress, arg.DropAddress, arg.VendorName, arg.Amount,
	)
	return scanBooking(row)
}

func (q *Queries) GetBookingByID(ctx context.Context, id uuid.UUID) (Booking, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+bookingReturning+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

type UpdateBookingStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateBookingStatus(ctx context.Context, arg UpdateBookingStatusParams) (Booking, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+bookingReturning,
		arg.ID, arg.Status,
	)
	return scanBooking(row)
}

func scanBooking(row rowScanner) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.ServiceType,
		&b.Status,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.PickupAddress,
		&b.DropAddress,
		&b.VendorName,
		&b.Amount,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

// NullStringToPtr converts sql.NullString to *string
func NullStringToPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

// PtrToNullString converts *string to sql.NullString
func PtrToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
