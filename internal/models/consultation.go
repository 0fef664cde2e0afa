package models

import "time"

// ConsultationMode is how the expert gets back to the customer.
type ConsultationMode string

const (
	ConsultationModeEmail ConsultationMode = "email"
	ConsultationModeCall  ConsultationMode = "call"
)

const (
	PaymentStatusFree = "free"
	PaymentStatusPaid = "paid"
)

// Consultation is a booked expert consultation as stored in the consultations table.
type Consultation struct {
	ID               string           `json:"id" db:"id"`
	UserID           string           `json:"userId,omitempty" db:"user_id"`
	Name             string           `json:"name" db:"name"`
	Email            string           `json:"email" db:"email"`
	Phone            string           `json:"phone,omitempty" db:"phone"`
	Mode             ConsultationMode `json:"mode" db:"mode"`
	Concern          string           `json:"concern" db:"concern"`
	Budget           string           `json:"budget,omitempty" db:"budget"`
	Brands           string           `json:"brands,omitempty" db:"brands"`
	Usage            string           `json:"usage,omitempty" db:"usage"`
	Timeline         string           `json:"timeline,omitempty" db:"timeline"`
	Transmission     string           `json:"transmission,omitempty" db:"transmission"`
	PaymentStatus    string           `json:"paymentStatus" db:"payment_status"`
	PaymentReference string           `json:"paymentReference,omitempty" db:"payment_reference"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
}

// NotificationStatus reports each channel of a booking confirmation.
type NotificationStatus struct {
	CustomerEmail string `json:"customerEmail"`
	ExpertEmail   string `json:"expertEmail"`
	SMS           string `json:"sms"`
}

const (
	NotificationSent     = "sent"
	NotificationFailed   = "failed"
	NotificationDisabled = "disabled"
)

// FuelPricePoint is one day of a city's retail fuel price.
type FuelPricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}
