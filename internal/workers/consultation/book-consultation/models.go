package bookconsultation

import (
	"time"

	"driveup-workers/internal/models"
)

type Input struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Mode             string `json:"mode"`
	Concern          string `json:"concern"`
	Budget           string `json:"budget,omitempty"`
	Brands           string `json:"brands,omitempty"`
	Usage            string `json:"usage,omitempty"`
	Timeline         string `json:"timeline,omitempty"`
	Transmission     string `json:"transmission,omitempty"`
	PaymentReference string `json:"paymentReference,omitempty"`
	UserID           string `json:"userId,omitempty"`
}

type Output struct {
	ConsultationID     string                    `json:"consultationId"`
	Status             string                    `json:"status"`
	PaymentStatus      string                    `json:"paymentStatus"`
	NotificationStatus models.NotificationStatus `json:"notificationStatus"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// BookedEvent is the payload of consultation.booked.
type BookedEvent struct {
	ConsultationID string `json:"consultationId"`
	Mode           string `json:"mode"`
	PaymentStatus  string `json:"paymentStatus"`
	UserID         string `json:"userId,omitempty"`
}

const StatusBooked = "booked"
