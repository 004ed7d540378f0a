// Package checkin implements the attendance submission workflow: draft
// validation, position resolution against the venue geofence, status
// stamping, persistence, and the best-effort relay hand-off.
package checkin

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"attensync/internal/geo"
	"attensync/internal/metrics"
	"attensync/internal/record"
)

// locateTimeout bounds the position lookup, matching the browser
// geolocation budget the venue flow was tuned for.
const locateTimeout = 5 * time.Second

// Result messages shown to the visitor.
const (
	msgPresent    = "Location verified. You have been marked Present."
	msgNoLocation = "Could not verify your location. You have been marked Absent."
)

// Draft is a check-in submission before validation and status computation.
type Draft struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Gender     string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Age        string `json:"age" validate:"required"`
	DOB        string `json:"dob" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

// ValidationError reports the draft fields that failed validation. It is the
// only error Submit can return.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// PositionSource resolves the submitter's current position. Implementations
// must honor the context deadline.
type PositionSource interface {
	Current(ctx context.Context) (geo.Position, error)
}

// StaticPosition is a PositionSource returning a fixed coordinate, built from
// client-reported coordinates or used as a test double.
type StaticPosition geo.Position

// Current returns the fixed coordinate.
func (p StaticPosition) Current(context.Context) (geo.Position, error) {
	return geo.Position(p), nil
}

// Notifier forwards a committed record to the external sink. Delivery is
// best-effort; the workflow only logs the outcome.
type Notifier interface {
	Notify(ctx context.Context, rec record.Record) error
}

// Result is the submission verdict shown to the visitor.
type Result struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Record  record.Record `json:"record"`
}

// Service runs the submission workflow against a record store and fence.
type Service struct {
	store    record.Store
	fence    geo.Fence
	relay    Notifier
	metrics  *metrics.Metrics
	validate *validator.Validate
	now      func() time.Time
	locate   time.Duration
}

// NewService creates the workflow. relay and m may be nil.
func NewService(store record.Store, fence geo.Fence, relay Notifier, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		fence:    fence,
		relay:    relay,
		metrics:  m,
		validate: validator.New(),
		now:      time.Now,
		locate:   locateTimeout,
	}
}

// Submit validates the draft, verifies the position, stamps the status, and
// appends the record. Once validation passes it always resolves with a
// Result; geolocation, storage, and relay failures never surface as errors.
func (s *Service) Submit(ctx context.Context, draft Draft, src PositionSource) (Result, error) {
	if draft.Age == "" {
		draft.Age = ageFromDOB(draft.DOB, s.now())
	}
	if err := s.validateDraft(draft); err != nil {
		return Result{}, err
	}
	if draft.Gender == "" {
		draft.Gender = record.GenderOther
	}

	status, message := s.verifyPosition(ctx, src)

	rec := record.Record{
		ID:               draft.ID,
		Name:             draft.Name,
		Department:       draft.Department,
		Gender:           draft.Gender,
		Age:              draft.Age,
		DOB:              draft.DOB,
		Email:            draft.Email,
		Timestamp:        s.now().UTC().Format(time.RFC3339),
		AttendanceStatus: status,
	}

	if err := s.store.Append(ctx, rec); err != nil {
		// The verdict still stands for the visitor; losing it silently would
		// be worse than logging and counting the write failure.
		log.Printf("record append failed for %s: %v", rec.ID, err)
		s.metrics.IncStorageFailure()
	}
	s.metrics.IncCheckin(status)

	if s.relay != nil {
		go s.deliver(rec)
	}

	return Result{Status: status, Message: message, Record: rec}, nil
}

func (s *Service) validateDraft(draft Draft) error {
	err := s.validate.Struct(draft)
	if err == nil {
		return nil
	}
	verr := &ValidationError{}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			verr.Fields = append(verr.Fields, strings.ToLower(fe.Field()))
		}
	} else {
		verr.Fields = append(verr.Fields, "draft")
	}
	return verr
}

// verifyPosition resolves the position within the location budget and decides
// the status. Every failure path resolves to Absent rather than an error: a
// denied or unavailable location still records attendance.
func (s *Service) verifyPosition(ctx context.Context, src PositionSource) (status, message string) {
	if src == nil {
		return record.StatusAbsent, msgNoLocation
	}
	lctx, cancel := context.WithTimeout(ctx, s.locate)
	defer cancel()

	pos, err := src.Current(lctx)
	if err != nil {
		log.Printf("position lookup failed: %v", err)
		return record.StatusAbsent, msgNoLocation
	}

	dist := s.fence.DistanceTo(pos)
	if dist <= s.fence.RadiusMeters {
		return record.StatusPresent, msgPresent
	}
	return record.StatusAbsent, fmt.Sprintf(
		"You are %dm away from the venue. You have been marked Absent.",
		int(math.Round(dist)))
}

// deliver runs the fire-and-forget relay. It detaches from the request
// context so a finished request cannot cancel the hand-off.
func (s *Service) deliver(rec record.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.relay.Notify(ctx, rec); err != nil {
		log.Printf("relay failed for %s: %v", rec.ID, err)
		s.metrics.IncRelayFailure()
		return
	}
	s.metrics.IncRelayDelivery()
}

// ageFromDOB derives a whole-year age from an ISO date, empty when the date
// does not parse.
func ageFromDOB(dob string, now time.Time) string {
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return ""
	}
	years := now.Year() - t.Year()
	if now.YearDay() < t.YearDay() {
		years--
	}
	if years < 0 {
		return ""
	}
	return fmt.Sprintf("%d", years)
}
