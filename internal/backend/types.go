package backend

import (
	"fmt"
	"time"
)

// Clinic is a bookable clinic as reported by the platform backend.
type Clinic struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Specialties []string `json:"specialties"`
}

// Doctor belongs to a clinic and accepts appointments on a fixed weekly
// schedule. WorkingDays holds weekday numbers with Sunday=0.
type Doctor struct {
	ID              string  `json:"id"`
	ClinicID        string  `json:"clinicId"`
	FullName        string  `json:"fullName"`
	Specialty       string  `json:"specialty"`
	YearsExperience int     `json:"yearsExperience"`
	ConsultationFee float64 `json:"consultationFee"`
	AvatarURL       string  `json:"avatar"`
	WorkingDays     []int   `json:"workingDays"`
}

// WorksOn reports whether the doctor accepts appointments on the given weekday.
func (d *Doctor) WorksOn(weekday time.Weekday) bool {
	for _, wd := range d.WorkingDays {
		if wd == int(weekday) {
			return true
		}
	}
	return false
}

// Slot is one bookable time-of-day unit for a doctor on a specific date.
type Slot struct {
	Time      string `json:"time"` // "HH:MM", clinic-local
	Available bool   `json:"available"`
}

// DoctorSlots groups the slots of one doctor in an availability response.
type DoctorSlots struct {
	Doctor DoctorRef `json:"doctor"`
	Slots  []Slot    `json:"slots"`
}

// DoctorRef identifies the doctor a slot group belongs to.
type DoctorRef struct {
	ID string `json:"id"`
}

// AvailableSlotsResponse is the payload of the availability endpoint.
type AvailableSlotsResponse struct {
	AvailableSlots []DoctorSlots `json:"availableSlots"`
}

// CreateAppointmentRequest is the booking submission payload. AppointmentDate
// is a clinic-local calendar date (YYYY-MM-DD), never a UTC instant.
type CreateAppointmentRequest struct {
	ClinicID        string `json:"clinicId"`
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	TimeSlot        string `json:"timeSlot"`
	Type            string `json:"type"`
	Reason          string `json:"reason"`
}

// Appointment is a created booking. Status is owned by the backend.
type Appointment struct {
	ID              string `json:"id"`
	ClinicID        string `json:"clinicId"`
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	TimeSlot        string `json:"timeSlot"`
	Type            string `json:"type"`
	Reason          string `json:"reason"`
	Status          string `json:"status"`
}

// envelope is the backend's uniform response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// APIError is a rejection reported by the backend itself (for example a slot
// that was taken between selection and submit), as opposed to a transport or
// decoding failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: api error (status %d): %s", e.Status, e.Message)
}
