// Package wizard implements the three-step appointment booking flow:
// select doctor, select date and time slot, confirm and submit. Session holds
// the per-patient selection state; Service composes it with the platform
// backend; the chi handlers expose it over HTTP.
package wizard

import (
	"errors"
	"time"

	"github.com/clinicbook/booking-portal/internal/backend"
	"github.com/clinicbook/booking-portal/internal/calendar"
)

// Wizard steps.
const (
	StepSelectDoctor   = 1
	StepSelectDateTime = 2
	StepConfirm        = 3
)

// Appointment types accepted by the backend.
const (
	TypeConsultation = "consultation"
	TypeCheckup      = "checkup"
	TypeFollowUp     = "follow-up"
)

var (
	ErrDoctorRequired      = errors.New("wizard: a doctor must be selected first")
	ErrDateAndSlotRequired = errors.New("wizard: a date and a time slot must be selected first")
	ErrUnknownDoctor       = errors.New("wizard: doctor does not belong to this clinic")
	ErrDateNotSelectable   = errors.New("wizard: date is in the past or outside the doctor's working days")
	ErrSlotNotAvailable    = errors.New("wizard: time slot is not in the available list")
	ErrInvalidType         = errors.New("wizard: unknown appointment type")
)

// Session is the transient selection state of one booking flow. It is scoped
// to a single clinic, mutated only through its methods, and discarded on
// submit, cancel, or TTL expiry.
type Session struct {
	ID       string `json:"id"`
	ClinicID string `json:"clinicId"`
	Step     int    `json:"step"`

	Clinic  *backend.Clinic  `json:"clinic,omitempty"`
	Doctors []backend.Doctor `json:"doctors,omitempty"`

	SelectedDoctor  *backend.Doctor `json:"selectedDoctor,omitempty"`
	SelectedDate    string          `json:"selectedDate,omitempty"` // clinic-local YYYY-MM-DD
	SelectedSlot    string          `json:"selectedSlot,omitempty"` // "HH:MM"
	AppointmentType string          `json:"appointmentType"`
	Reason          string          `json:"reason,omitempty"`

	AvailableSlots []string `json:"availableSlots"`

	// MonthCursor is the month the calendar grid displays (YYYY-MM). Month
	// navigation never touches the selection.
	MonthCursor string `json:"monthCursor"`

	// SlotFetchSeq increases every time the doctor or date changes. An
	// availability response may only be applied while its captured sequence
	// still matches, which drops out-of-order responses from rapid
	// reselection.
	SlotFetchSeq uint64 `json:"slotFetchSeq"`

	CreatedAt time.Time `json:"createdAt"`
}

// SelectDoctor records a doctor choice. Any previously chosen date, slot, and
// fetched slot list belong to the old doctor and are invalidated.
func (s *Session) SelectDoctor(d backend.Doctor) {
	doc := d
	s.SelectedDoctor = &doc
	s.SelectedDate = ""
	s.SelectedSlot = ""
	s.AvailableSlots = nil
	s.SlotFetchSeq++
}

// SelectDate records a date choice after validating it against the selected
// doctor's schedule. Slot availability is date-specific, so the previously
// chosen slot and the fetched slot list are invalidated.
func (s *Session) SelectDate(date string, today time.Time, loc *time.Location) error {
	if s.SelectedDoctor == nil {
		return ErrDoctorRequired
	}
	day, err := calendar.ParseDate(date, loc)
	if err != nil {
		return ErrDateNotSelectable
	}
	if !calendar.DaySelectable(day, s.SelectedDoctor.WorkingDays, today) {
		return ErrDateNotSelectable
	}
	s.SelectedDate = calendar.FormatDate(day)
	s.SelectedSlot = ""
	s.AvailableSlots = nil
	s.SlotFetchSeq++
	return nil
}

// SelectSlot records a time-slot choice. The slot must come from the list
// fetched for the current doctor and date.
func (s *Session) SelectSlot(slot string) error {
	if s.SelectedDate == "" {
		return ErrDateAndSlotRequired
	}
	for _, t := range s.AvailableSlots {
		if t == slot {
			s.SelectedSlot = slot
			return nil
		}
	}
	return ErrSlotNotAvailable
}

// SetDetails records the appointment type and visit reason.
func (s *Session) SetDetails(appointmentType, reason string) error {
	switch appointmentType {
	case TypeConsultation, TypeCheckup, TypeFollowUp:
	default:
		return ErrInvalidType
	}
	s.AppointmentType = appointmentType
	s.Reason = reason
	return nil
}

// CanContinue reports whether the current step's forward guard is satisfied.
func (s *Session) CanContinue() bool {
	switch s.Step {
	case StepSelectDoctor:
		return s.SelectedDoctor != nil
	case StepSelectDateTime:
		return s.SelectedDate != "" && s.SelectedSlot != ""
	default:
		return false
	}
}

// Next advances one step, enforcing the step-gating guards.
func (s *Session) Next() error {
	switch s.Step {
	case StepSelectDoctor:
		if s.SelectedDoctor == nil {
			return ErrDoctorRequired
		}
	case StepSelectDateTime:
		if s.SelectedDate == "" || s.SelectedSlot == "" {
			return ErrDateAndSlotRequired
		}
	default:
		return nil
	}
	s.Step++
	return nil
}

// Back moves one step back. Going back never resets selection state.
func (s *Session) Back() {
	if s.Step > StepSelectDoctor {
		s.Step--
	}
}

// ReadyToSubmit checks the presence guards before a submission is attempted.
// This is a UX fast-fail; the backend remains the validation authority.
func (s *Session) ReadyToSubmit() error {
	if s.SelectedDoctor == nil {
		return ErrDoctorRequired
	}
	if s.SelectedDate == "" || s.SelectedSlot == "" {
		return ErrDateAndSlotRequired
	}
	return nil
}

// MoveMonth shifts the calendar display cursor without touching the
// selection; a selected date in another month stays selected off-screen.
func (s *Session) MoveMonth(delta int, loc *time.Location) error {
	cursor, err := calendar.ParseMonth(s.MonthCursor, loc)
	if err != nil {
		return err
	}
	s.MonthCursor = calendar.AddMonths(cursor, delta).Format(calendar.MonthLayout)
	return nil
}

// Calendar renders the month grid for the session's display cursor.
func (s *Session) Calendar(today time.Time, loc *time.Location) []calendar.Day {
	cursor, err := calendar.ParseMonth(s.MonthCursor, loc)
	if err != nil {
		cursor = calendar.StartOfDay(today.In(loc))
	}
	var workingDays []int
	if s.SelectedDoctor != nil {
		workingDays = s.SelectedDoctor.WorkingDays
	}
	return calendar.MonthGrid(cursor, workingDays, today, s.SelectedDate)
}

// doctorByID finds a doctor in the clinic's roster.
func (s *Session) doctorByID(id string) (backend.Doctor, bool) {
	for _, d := range s.Doctors {
		if d.ID == id {
			return d, true
		}
	}
	return backend.Doctor{}, false
}
