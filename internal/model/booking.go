package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Booking statuses
const (
	StatusPending   = "pending"
	StatusAssigned  = "assigned"
	StatusEnroute   = "enroute"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Service types
const (
	ServiceAmbulance = "ambulance"
	ServiceManpower  = "manpower"
	ServiceVendor    = "vendor"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusAssigned:  true,
	StatusEnroute:   true,
	StatusCompleted: true,
	StatusCancelled: true,
}

var validServiceTypes = map[string]bool{
	ServiceAmbulance: true,
	ServiceManpower:  true,
	ServiceVendor:    true,
}

// IsValidStatus reports whether s is a known booking status
func IsValidStatus(s string) bool {
	return validStatuses[s]
}

// IsValidServiceType reports whether s is a known service type
func IsValidServiceType(s string) bool {
	return validServiceTypes[s]
}

// BookingResponse represents a booking row in list and detail responses
type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	Reference     string    `json:"reference"`
	ServiceType   string    `json:"service_type"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	PickupAddress string    `json:"pickup_address"`
	DropAddress   *string   `json:"drop_address"`
	VendorName    *string   `json:"vendor_name"`
	Amount        *string   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookingPage is one page of a filtered booking list
type BookingPage struct {
	Items      []BookingResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	ServiceType   string  `json:"service_type"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	PickupAddress string  `json:"pickup_address"`
	DropAddress   *string `json:"drop_address"`
	VendorName    *string `json:"vendor_name"`
	Amount        *string `json:"amount"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.PickupAddress = strings.TrimSpace(r.PickupAddress)

	if !IsValidServiceType(r.ServiceType) {
		errors["service_type"] = "service_type must be one of ambulance, manpower, vendor"
	}

	if r.CustomerName == "" {
		errors["customer_name"] = "customer_name is required"
	} else if len(r.CustomerName) > 100 {
		errors["customer_name"] = "customer_name must be 100 characters or less"
	}

	if r.CustomerPhone == "" {
		errors["customer_phone"] = "customer_phone is required"
	} else if !isValidPhone(r.CustomerPhone) {
		errors["customer_phone"] = "invalid phone number"
	}

	if r.PickupAddress == "" {
		errors["pickup_address"] = "pickup_address is required"
	}

	return errors
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the status change request
func (r *UpdateStatusRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if r.Status == "" {
		errors["status"] = "status is required"
	} else if !IsValidStatus(r.Status) {
		errors["status"] = "unknown status"
	}

	return errors
}

// isValidPhone accepts digits with an optional leading '+', 7 to 15 digits
func isValidPhone(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
