package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/rescuegrid/dispatch-admin/internal/model"
)

// ListBookingsPaginatedResult contains the paginated bookings and total count
type ListBookingsPaginatedResult struct {
	Bookings   []Booking
	TotalCount int64
}

// ListBookingsPaginated retrieves bookings with pagination, sorting, search, and filters
func (q *Queries) ListBookingsPaginated(ctx context.Context, params model.ListBookingsParams) (*ListBookingsPaginatedResult, error) {
	countQuery, selectQuery := buildListBookingsQueries(params)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	err = q.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to execute count query: %w", err)
	}

	// If no results, return early
	if totalCount == 0 {
		return &ListBookingsPaginatedResult{
			Bookings:   []Booking{},
			TotalCount: 0,
		}, nil
	}

	selectSQL, selectArgs, err := selectQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w", err)
	}
	defer rows.Close()

	bookings := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}

	return &ListBookingsPaginatedResult{
		Bookings:   bookings,
		TotalCount: totalCount,
	}, nil
}

func buildListBookingsQueries(params model.ListBookingsParams) (sq.SelectBuilder, sq.SelectBuilder) {
	// Use PostgreSQL placeholder format ($1, $2, etc.)
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	conditions := sq.And{}

	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"reference": searchPattern},
			sq.ILike{"customer_name": searchPattern},
			sq.ILike{"customer_phone": searchPattern},
			sq.ILike{"pickup_address": searchPattern},
			sq.ILike{"vendor_name": searchPattern},
		})
	}

	if params.CreatedFrom != nil {
		conditions = append(conditions, sq.GtOrEq{"created_at": *params.CreatedFrom})
	}

	if params.CreatedTo != nil {
		conditions = append(conditions, sq.Lt{"created_at": *params.CreatedTo})
	}

	if params.Status != "" {
		conditions = append(conditions, sq.Eq{"status": params.Status})
	}

	if params.ServiceType != "" {
		conditions = append(conditions, sq.Eq{"service_type": params.ServiceType})
	}

	countQuery := psql.Select("COUNT(*)").From("bookings")
	selectQuery := psql.Select(bookingColumns...).From("bookings")
	if len(conditions) > 0 {
		countQuery = countQuery.Where(conditions)
		selectQuery = selectQuery.Where(conditions)
	}

	orderColumn := sanitizeSortColumn(params.SortBy)
	orderDir := strings.ToUpper(params.SortDir)
	if orderDir != "ASC" && orderDir != "DESC" {
		orderDir = "DESC"
	}
	// id breaks ties so pages never overlap
	selectQuery = selectQuery.OrderBy(fmt.Sprintf("%s %s", orderColumn, orderDir), "id "+orderDir)

	selectQuery = selectQuery.Limit(uint64(params.PerPage)).Offset(uint64(params.Offset()))

	return countQuery, selectQuery
}

// sanitizeSortColumn ensures only allowed columns are used for sorting
func sanitizeSortColumn(column string) string {
	allowedColumns := map[string]bool{
		"created_at":    true,
		"updated_at":    true,
		"status":        true,
		"service_type":  true,
		"customer_name": true,
		"amount":        true,
	}
	if allowedColumns[column] {
		return column
	}
	return "created_at"
}
