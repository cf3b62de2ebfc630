package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicbook/booking-portal/internal/backend"
	"github.com/clinicbook/booking-portal/internal/calendar"
	"github.com/clinicbook/booking-portal/internal/observability/metrics"
	"github.com/clinicbook/booking-portal/pkg/logging"
)

var wizardTracer = otel.Tracer("bookingportal.internal.wizard")

// Patient-facing messages. The platform's frontends are Vietnamese; server
// rejection messages from the backend arrive in Vietnamese as well.
const (
	msgClinicLoadFailed = "Không thể tải thông tin phòng khám"
	msgSlotLoadFailed   = "Không thể tải danh sách khung giờ trống"
	msgNoSlots          = "Không có khung giờ trống trong ngày này"
	msgMissingSelection = "Vui lòng chọn đầy đủ thông tin đặt khám"
	msgBookingSuccess   = "Đặt lịch hẹn thành công!"
	msgBookingFailed    = "Đặt lịch hẹn thất bại. Vui lòng thử lại sau."
)

// Notifier receives toast notifications for the patient. Implementations are
// injected per request so the wizard stays testable in isolation.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Navigator receives navigation instructions (redirect targets).
type Navigator interface {
	Navigate(path string)
}

// BackendAPI is the slice of the platform client the wizard consumes.
type BackendAPI interface {
	GetClinic(ctx context.Context, clinicID string) (*backend.Clinic, error)
	ListDoctors(ctx context.Context, clinicID string) ([]backend.Doctor, error)
	GetAvailableSlots(ctx context.Context, clinicID, doctorID, date string) ([]backend.DoctorSlots, error)
	CreateAppointment(ctx context.Context, req backend.CreateAppointmentRequest) (*backend.Appointment, error)
}

// Service drives booking sessions: remote reads, guarded transitions, submit.
type Service struct {
	store   SessionStore
	api     BackendAPI
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
	loc     *time.Location
	now     func() time.Time

	appointmentsPath string
	clinicsPath      string
}

// NewService constructs the wizard service. loc is the clinic-local timezone
// used for all calendar math; metrics may be nil.
func NewService(store SessionStore, api BackendAPI, m *metrics.BookingMetrics, logger *logging.Logger, loc *time.Location) *Service {
	if store == nil {
		panic("wizard: session store required")
	}
	if api == nil {
		panic("wizard: backend api required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:            store,
		api:              api,
		metrics:          m,
		logger:           logger,
		loc:              loc,
		now:              time.Now,
		appointmentsPath: "/appointments",
		clinicsPath:      "/clinics",
	}
}

// SetExitPaths overrides the navigation targets used on submit and cancel.
func (s *Service) SetExitPaths(appointments, clinics string) {
	if appointments != "" {
		s.appointmentsPath = appointments
	}
	if clinics != "" {
		s.clinicsPath = clinics
	}
}

// Start opens a new session for one clinic, loading the clinic detail and its
// doctor roster. A load failure is fatal to entering the wizard: the patient
// is sent back to the clinic listing with an error toast.
func (s *Service) Start(ctx context.Context, clinicID string, n Notifier, nav Navigator) (*Session, error) {
	ctx, span := wizardTracer.Start(ctx, "wizard.start")
	defer span.End()
	span.SetAttributes(attribute.String("booking.clinic_id", clinicID))

	clinic, err := s.timedGetClinic(ctx, clinicID)
	if err != nil {
		span.RecordError(err)
		s.failStart(err, clinicID, n, nav)
		return nil, err
	}
	doctors, err := s.timedListDoctors(ctx, clinicID)
	if err != nil {
		span.RecordError(err)
		s.failStart(err, clinicID, n, nav)
		return nil, err
	}

	today := s.now().In(s.loc)
	sess := &Session{
		ID:              uuid.NewString(),
		ClinicID:        clinicID,
		Step:            StepSelectDoctor,
		Clinic:          clinic,
		Doctors:         doctors,
		AppointmentType: TypeConsultation,
		MonthCursor:     today.Format(calendar.MonthLayout),
		CreatedAt:       today,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveSessionStarted()
	s.logger.Info("booking session started", "session_id", sess.ID, "clinic_id", clinicID, "doctors", len(doctors))
	return sess, nil
}

func (s *Service) failStart(err error, clinicID string, n Notifier, nav Navigator) {
	s.logger.Error("failed to enter booking wizard", "clinic_id", clinicID, "error", err)
	if n != nil {
		n.Error(msgClinicLoadFailed)
	}
	if nav != nil {
		nav.Navigate(s.clinicsPath)
	}
}

// Get loads an existing session.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	return s.store.Load(ctx, sessionID)
}

// SelectDoctor records a doctor choice, invalidating any date/slot chosen for
// the previous doctor. Usable regardless of the current step.
func (s *Service) SelectDoctor(ctx context.Context, sessionID, doctorID string) (*Session, error) {
	sess, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	doc, ok := sess.doctorByID(doctorID)
	if !ok {
		return nil, ErrUnknownDoctor
	}
	sess.SelectDoctor(doc)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SelectDate records a date choice and fetches the doctor's availability for
// it. A fetch failure is non-fatal: the patient gets a toast and an empty slot
// list, and can retry by reselecting the date.
func (s *Service) SelectDate(ctx context.Context, sessionID, date string, n Notifier) (*Session, error) {
	ctx, span := wizardTracer.Start(ctx, "wizard.select_date")
	defer span.End()
	span.SetAttributes(attribute.String("booking.date", date))

	sess, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SelectDate(date, s.now().In(s.loc), s.loc); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	return s.fetchSlots(ctx, sess, n)
}

// fetchSlots loads availability for the session's (doctor, date) pair. The
// result is applied only while the session's slot-fetch sequence still
// matches the one captured before the request went out; a stale response from
// rapid reselection is dropped instead of overwriting newer state.
func (s *Service) fetchSlots(ctx context.Context, sess *Session, n Notifier) (*Session, error) {
	seq := sess.SlotFetchSeq
	doctorID := sess.SelectedDoctor.ID

	start := s.now()
	groups, err := s.api.GetAvailableSlots(ctx, sess.ClinicID, doctorID, sess.SelectedDate)
	s.metrics.ObserveBackendLatency("get_available_slots", s.now().Sub(start).Seconds())
	if err != nil {
		s.metrics.ObserveSlotFetch("error")
		s.logger.Error("slot fetch failed", "session_id", sess.ID, "doctor_id", doctorID, "date", sess.SelectedDate, "error", err)
		if n != nil {
			n.Error(msgSlotLoadFailed)
		}
		return sess, nil
	}

	times := pickDoctorSlots(groups, doctorID)
	if times == nil {
		// The response had no entry for the requested doctor. Accepting the
		// first group here could book against the wrong doctor's schedule, so
		// fail loudly with an empty list instead.
		s.metrics.ObserveDoctorMissing()
		s.logger.Warn("availability response missing requested doctor", "session_id", sess.ID, "doctor_id", doctorID, "date", sess.SelectedDate, "groups", len(groups))
		times = []string{}
	}

	current, err := s.store.Load(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if current.SlotFetchSeq != seq {
		s.metrics.ObserveStaleDrop()
		s.logger.Debug("dropping stale slot response", "session_id", sess.ID, "fetched_seq", seq, "current_seq", current.SlotFetchSeq)
		return current, nil
	}

	current.AvailableSlots = times
	if err := s.store.Save(ctx, current); err != nil {
		return nil, err
	}
	s.metrics.ObserveSlotFetch("ok")
	if len(times) == 0 && n != nil {
		n.Info(msgNoSlots)
	}
	return current, nil
}

// pickDoctorSlots extracts the available times for exactly the requested
// doctor. Returns nil when the response carries no entry for that doctor.
func pickDoctorSlots(groups []backend.DoctorSlots, doctorID string) []string {
	for _, g := range groups {
		if g.Doctor.ID != doctorID {
			continue
		}
		times := make([]string, 0, len(g.Slots))
		for _, slot := range g.Slots {
			if slot.Available {
				times = append(times, slot.Time)
			}
		}
		return times
	}
	return nil
}

// SelectSlot records a time-slot choice.
func (s *Service) SelectSlot(ctx context.Context, sessionID, slot string) (*Session, error) {
	return s.mutate(ctx, sessionID, func(sess *Session) error {
		return sess.SelectSlot(slot)
	})
}

// SetDetails records appointment type and reason.
func (s *Service) SetDetails(ctx context.Context, sessionID, appointmentType, reason string) (*Session, error) {
	return s.mutate(ctx, sessionID, func(sess *Session) error {
		return sess.SetDetails(appointmentType, reason)
	})
}

// Next advances the wizard one step, enforcing step gating.
func (s *Service) Next(ctx context.Context, sessionID string) (*Session, error) {
	return s.mutate(ctx, sessionID, func(sess *Session) error {
		return sess.Next()
	})
}

// Back moves the wizard one step back without resetting state.
func (s *Service) Back(ctx context.Context, sessionID string) (*Session, error) {
	return s.mutate(ctx, sessionID, func(sess *Session) error {
		sess.Back()
		return nil
	})
}

// MoveMonth shifts the calendar display cursor.
func (s *Service) MoveMonth(ctx context.Context, sessionID string, delta int) (*Session, error) {
	return s.mutate(ctx, sessionID, func(sess *Session) error {
		return sess.MoveMonth(delta, s.loc)
	})
}

// Calendar renders the month grid for a session.
func (s *Service) Calendar(sess *Session) []calendar.Day {
	return sess.Calendar(s.now().In(s.loc), s.loc)
}

// Submit creates the appointment. On success the session is finished: success
// toast, redirect to the appointments list, session deleted. On failure the
// session is kept intact so the patient can pick another slot and retry.
func (s *Service) Submit(ctx context.Context, sessionID string, n Notifier, nav Navigator) (*backend.Appointment, error) {
	ctx, span := wizardTracer.Start(ctx, "wizard.submit")
	defer span.End()

	sess, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.ReadyToSubmit(); err != nil {
		if n != nil {
			n.Error(msgMissingSelection)
		}
		return nil, err
	}

	req := backend.CreateAppointmentRequest{
		ClinicID:        sess.ClinicID,
		DoctorID:        sess.SelectedDoctor.ID,
		AppointmentDate: sess.SelectedDate,
		TimeSlot:        sess.SelectedSlot,
		Type:            sess.AppointmentType,
		Reason:          sess.Reason,
	}
	start := s.now()
	appt, err := s.api.CreateAppointment(ctx, req)
	s.metrics.ObserveBackendLatency("create_appointment", s.now().Sub(start).Seconds())
	if err != nil {
		span.RecordError(err)
		status := "error"
		msg := backend.ErrorMessage(err)
		if msg != "" {
			status = "rejected"
		} else {
			msg = msgBookingFailed
		}
		s.metrics.ObserveSubmission(status)
		s.logger.Error("appointment submission failed", "session_id", sess.ID, "doctor_id", req.DoctorID, "date", req.AppointmentDate, "slot", req.TimeSlot, "error", err)
		if n != nil {
			n.Error(msg)
		}
		return nil, err
	}

	s.metrics.ObserveSubmission("ok")
	s.logger.Info("appointment created", "session_id", sess.ID, "appointment_id", appt.ID, "doctor_id", req.DoctorID, "date", req.AppointmentDate, "slot", req.TimeSlot)
	if n != nil {
		n.Success(msgBookingSuccess)
	}
	if nav != nil {
		nav.Navigate(s.appointmentsPath)
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to delete finished session", "session_id", sessionID, "error", err)
	}
	return appt, nil
}

// Cancel abandons the wizard and sends the patient back to the clinic list.
func (s *Service) Cancel(ctx context.Context, sessionID string, nav Navigator) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("wizard: cancel session: %w", err)
	}
	if nav != nil {
		nav.Navigate(s.clinicsPath)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Session) error) (*Session, error) {
	sess, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) timedGetClinic(ctx context.Context, clinicID string) (*backend.Clinic, error) {
	start := s.now()
	clinic, err := s.api.GetClinic(ctx, clinicID)
	s.metrics.ObserveBackendLatency("get_clinic", s.now().Sub(start).Seconds())
	return clinic, err
}

func (s *Service) timedListDoctors(ctx context.Context, clinicID string) ([]backend.Doctor, error) {
	start := s.now()
	doctors, err := s.api.ListDoctors(ctx, clinicID)
	s.metrics.ObserveBackendLatency("list_doctors", s.now().Sub(start).Seconds())
	return doctors, err
}
