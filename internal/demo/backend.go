// Package demo provides an in-memory stand-in for the platform backend so the
// portal can be run and demoed without network access to the real API. It
// serves the same endpoints and response envelope the portal consumes.
package demo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/clinicbook/booking-portal/internal/backend"
	"github.com/google/uuid"
)

// Handler is the demo backend. Slot availability is deterministic per
// (doctor, date) so demos are reproducible, and submitted bookings take the
// slot out of circulation like the real backend would.
type Handler struct {
	mu      sync.Mutex
	clinics map[string]backend.Clinic
	doctors []backend.Doctor
	booked  map[string]bool // doctorID|date|slot
}

// NewHandler creates a demo backend seeded with two clinics and their
// doctor rosters.
func NewHandler() *Handler {
	h := &Handler{
		clinics: map[string]backend.Clinic{},
		booked:  map[string]bool{},
	}
	h.seed()
	return h
}

func (h *Handler) seed() {
	clinic1 := backend.Clinic{
		ID:          "demo-clinic-1",
		Name:        "Phòng khám Đa khoa Sài Gòn",
		Address:     "123 Nguyễn Huệ, Quận 1, TP.HCM",
		Phone:       "028 3822 1234",
		Specialties: []string{"Nội tổng quát", "Tai mũi họng"},
	}
	clinic2 := backend.Clinic{
		ID:          "demo-clinic-2",
		Name:        "Phòng khám Chuyên khoa Hà Nội",
		Address:     "45 Tràng Tiền, Hoàn Kiếm, Hà Nội",
		Phone:       "024 3936 5678",
		Specialties: []string{"Da liễu", "Nhi khoa"},
	}
	h.clinics[clinic1.ID] = clinic1
	h.clinics[clinic2.ID] = clinic2

	h.doctors = []backend.Doctor{
		{
			ID:              "demo-doc-1",
			ClinicID:        clinic1.ID,
			FullName:        "BS. Nguyễn Văn An",
			Specialty:       "Nội tổng quát",
			YearsExperience: 12,
			ConsultationFee: 300000,
			WorkingDays:     []int{1, 2, 3, 4, 5},
		},
		{
			ID:              "demo-doc-2",
			ClinicID:        clinic1.ID,
			FullName:        "BS. Trần Thị Bình",
			Specialty:       "Tai mũi họng",
			YearsExperience: 8,
			ConsultationFee: 250000,
			WorkingDays:     []int{1, 3, 5, 6},
		},
		{
			ID:              "demo-doc-3",
			ClinicID:        clinic2.ID,
			FullName:        "BS. Lê Minh Châu",
			Specialty:       "Da liễu",
			YearsExperience: 15,
			ConsultationFee: 350000,
			WorkingDays:     []int{2, 4, 6},
		},
	}
}

// Routes returns the demo backend's router, mirroring the platform API shape.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/clinics/{clinicID}", h.GetClinic)
	r.Get("/doctors", h.ListDoctors)
	r.Get("/clinics/{clinicID}/available-slots", h.GetAvailableSlots)
	r.Post("/appointments", h.CreateAppointment)
	return r
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// GetClinic returns one clinic.
// GET /clinics/{clinicID}
func (h *Handler) GetClinic(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	clinic, ok := h.clinics[chi.URLParam(r, "clinicID")]
	h.mu.Unlock()
	if !ok {
		writeEnvelope(w, http.StatusNotFound, envelope{Error: "Không tìm thấy phòng khám"})
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: clinic})
}

// ListDoctors returns the doctors of a clinic.
// GET /doctors?clinicId=...
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinicId")
	h.mu.Lock()
	var out []backend.Doctor
	for _, d := range h.doctors {
		if clinicID == "" || d.ClinicID == clinicID {
			out = append(out, d)
		}
	}
	h.mu.Unlock()
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: out})
}

// GetAvailableSlots returns a doctor's open slots for one date.
// GET /clinics/{clinicID}/available-slots?doctorId=...&date=...
func (h *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctorId")
	date := r.URL.Query().Get("date")
	if doctorID == "" || date == "" {
		writeEnvelope(w, http.StatusBadRequest, envelope{Error: "doctorId và date là bắt buộc"})
		return
	}

	h.mu.Lock()
	slots := make([]backend.Slot, 0, len(slotTimes))
	for _, tm := range slotTimes {
		slots = append(slots, backend.Slot{
			Time:      tm,
			Available: !h.booked[bookingKey(doctorID, date, tm)],
		})
	}
	h.mu.Unlock()

	resp := backend.AvailableSlotsResponse{
		AvailableSlots: []backend.DoctorSlots{{
			Doctor: backend.DoctorRef{ID: doctorID},
			Slots:  slots,
		}},
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: resp})
}

// CreateAppointment books a slot, rejecting double bookings.
// POST /appointments
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req backend.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Error: "invalid JSON body"})
		return
	}
	if req.ClinicID == "" || req.DoctorID == "" || req.AppointmentDate == "" || req.TimeSlot == "" {
		writeEnvelope(w, http.StatusBadRequest, envelope{Error: "Thiếu thông tin đặt khám"})
		return
	}

	key := bookingKey(req.DoctorID, req.AppointmentDate, req.TimeSlot)
	h.mu.Lock()
	if h.booked[key] {
		h.mu.Unlock()
		writeEnvelope(w, http.StatusConflict, envelope{Error: "Khung giờ này đã được đặt"})
		return
	}
	h.booked[key] = true
	h.mu.Unlock()

	appt := backend.Appointment{
		ID:              uuid.NewString(),
		ClinicID:        req.ClinicID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		TimeSlot:        req.TimeSlot,
		Type:            req.Type,
		Reason:          req.Reason,
		Status:          "pending",
	}
	writeEnvelope(w, http.StatusCreated, envelope{Success: true, Data: appt})
}

// slotTimes is the fixed half-hour grid of a demo working day, with a lunch
// break between 11:30 and 13:00.
var slotTimes = []string{
	"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

func bookingKey(doctorID, date, slot string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, date, slot)
}
