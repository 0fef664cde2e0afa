package bookconsultation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"driveup-workers/internal/common/aws"
	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/events"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/common/validation"
	"driveup-workers/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "book-consultation"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Handler struct {
	config    *Config
	db        *sql.DB
	email     aws.EmailSender
	sms       aws.SMSSender
	publisher events.Publisher
	logger    logger.Logger
	reporter  *camunda.JobReporter
}

// NewHandler accepts nil email and sms senders; the matching channel is then
// reported as disabled.
func NewHandler(config *Config, db *sql.DB, email aws.EmailSender, sms aws.SMSSender, publisher events.Publisher, log logger.Logger) *Handler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		db:        db,
		email:     email,
		sms:       sms,
		publisher: publisher,
		logger:    scoped,
		reporter:  camunda.NewJobReporter(TaskType, scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.reporter.Fail(context.Background(), client, job,
			apperrors.NewInvalidConsultationError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(context.Background(), client, job, err)
		return
	}

	h.reporter.Complete(context.Background(), client, job, output)
}

// Execute books the consultation and sends its confirmations. It is shared
// by the job handler and the HTTP gateway.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	c := newConsultation(input)
	if err := h.insert(ctx, c); err != nil {
		return nil, apperrors.NewConsultationBookingFailedError(err)
	}

	h.logger.Info("consultation booked", map[string]interface{}{
		"consultationId": c.ID,
		"mode":           c.Mode,
		"paymentStatus":  c.PaymentStatus,
	})

	status := h.notify(ctx, c)
	h.publishBooked(ctx, c)

	return &Output{
		ConsultationID:     c.ID,
		Status:             StatusBooked,
		PaymentStatus:      c.PaymentStatus,
		NotificationStatus: status,
		CreatedAt:          c.CreatedAt,
	}, nil
}

func validateInput(input *Input) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Concern = strings.TrimSpace(input.Concern)

	result, err := inputSchema.Validate(input)
	if err != nil {
		return apperrors.NewInvalidConsultationError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewInvalidConsultationError(strings.Join(result.GetErrorMessages(), "; "))
	}
	if !validation.ValidateEmail(input.Email) {
		return apperrors.NewInvalidConsultationError("email: invalid address")
	}

	if models.ConsultationMode(input.Mode) == models.ConsultationModeCall {
		if !validation.ValidatePhone(input.Phone) {
			return apperrors.NewInvalidConsultationError("phone: required for call consultations")
		}
		if strings.TrimSpace(input.PaymentReference) == "" {
			return apperrors.NewInvalidConsultationError("paymentReference: required for call consultations")
		}
	} else if input.Phone != "" && !validation.ValidatePhone(input.Phone) {
		return apperrors.NewInvalidConsultationError("phone: invalid number")
	}
	return nil
}

func newConsultation(input *Input) *models.Consultation {
	c := &models.Consultation{
		ID:               uuid.NewString(),
		UserID:           input.UserID,
		Name:             input.Name,
		Email:            input.Email,
		Phone:            input.Phone,
		Mode:             models.ConsultationMode(input.Mode),
		Concern:          input.Concern,
		Budget:           input.Budget,
		Brands:           input.Brands,
		Usage:            input.Usage,
		Timeline:         input.Timeline,
		Transmission:     input.Transmission,
		PaymentStatus:    models.PaymentStatusFree,
		PaymentReference: input.PaymentReference,
		CreatedAt:        time.Now().UTC(),
	}
	if c.Mode == models.ConsultationModeCall {
		c.PaymentStatus = models.PaymentStatusPaid
	}
	return c
}

func (h *Handler) insert(ctx context.Context, c *models.Consultation) error {
	query, args, err := psql.Insert("consultations").
		Columns("id", "user_id", "name", "email", "phone", "mode", "concern",
			"budget", "brands", "usage", "timeline", "transmission",
			"payment_status", "payment_reference", "created_at").
		Values(c.ID, nullable(c.UserID), c.Name, c.Email, nullable(c.Phone), string(c.Mode), c.Concern,
			nullable(c.Budget), nullable(c.Brands), nullable(c.Usage), nullable(c.Timeline), nullable(c.Transmission),
			c.PaymentStatus, nullable(c.PaymentReference), c.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := h.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// notify never fails the booking; each channel reports its own status.
func (h *Handler) notify(ctx context.Context, c *models.Consultation) models.NotificationStatus {
	status := models.NotificationStatus{
		CustomerEmail: models.NotificationDisabled,
		ExpertEmail:   models.NotificationDisabled,
		SMS:           models.NotificationDisabled,
	}

	if h.config.EmailEnabled && h.email != nil {
		status.ExpertEmail = h.deliver("expertEmail", c, func() error {
			body, err := render(expertTemplate, c)
			if err != nil {
				return err
			}
			_, err = h.email.SendEmail(ctx, aws.Email{
				To:       h.config.ExpertEmail,
				Subject:  expertSubject,
				TextBody: body,
			})
			return err
		})

		status.CustomerEmail = h.deliver("customerEmail", c, func() error {
			body, err := render(customerTemplate, c)
			if err != nil {
				return err
			}
			_, err = h.email.SendEmail(ctx, aws.Email{
				To:       c.Email,
				Subject:  customerSubject,
				TextBody: customerSubject,
				HTMLBody: body,
			})
			return err
		})
	}

	if c.Mode == models.ConsultationModeCall && h.config.SMSEnabled && h.sms != nil {
		status.SMS = h.deliver("sms", c, func() error {
			body, err := render(smsTemplate, c)
			if err != nil {
				return err
			}
			_, err = h.sms.SendSMS(ctx, c.Phone, body)
			return err
		})
	}

	return status
}

func (h *Handler) deliver(channel string, c *models.Consultation, send func() error) string {
	if err := send(); err != nil {
		h.logger.Warn("consultation notification failed", map[string]interface{}{
			"consultationId": c.ID,
			"error":          apperrors.NewNotificationSendFailedError(channel, err).Error(),
			"cause":          err.Error(),
		})
		return models.NotificationFailed
	}
	return models.NotificationSent
}

func (h *Handler) publishBooked(ctx context.Context, c *models.Consultation) {
	ev := events.NewEvent(events.TypeConsultationBooked, c.ID, BookedEvent{
		ConsultationID: c.ID,
		Mode:           string(c.Mode),
		PaymentStatus:  c.PaymentStatus,
		UserID:         c.UserID,
	})
	if err := h.publisher.Publish(ctx, h.config.EventTopic, ev); err != nil {
		h.logger.Warn("failed to publish consultation event", map[string]interface{}{
			"consultationId": c.ID,
			"error":          err.Error(),
		})
	}
}
