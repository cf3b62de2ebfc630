package wizard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicbook/booking-portal/internal/calendar"
	"github.com/clinicbook/booking-portal/pkg/logging"
)

// Handler exposes the booking wizard over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new wizard HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Routes returns a chi router with the booking wizard routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{clinicID}/sessions", h.StartSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/doctor", h.SelectDoctor)
		r.Post("/date", h.SelectDate)
		r.Post("/slot", h.SelectSlot)
		r.Post("/details", h.SetDetails)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Post("/month", h.MoveMonth)
		r.Post("/submit", h.Submit)
		r.Delete("/", h.Cancel)
	})
	return r
}

// Toast is a notification the frontend should surface to the patient.
type Toast struct {
	Level   string `json:"level"` // "success", "error", "info"
	Message string `json:"message"`
}

// uiRecorder collects toasts and the redirect target produced while handling
// one request, for delivery in the JSON response.
type uiRecorder struct {
	toasts   []Toast
	redirect string
}

func (u *uiRecorder) Success(msg string) { u.toasts = append(u.toasts, Toast{Level: "success", Message: msg}) }
func (u *uiRecorder) Error(msg string)   { u.toasts = append(u.toasts, Toast{Level: "error", Message: msg}) }
func (u *uiRecorder) Info(msg string)    { u.toasts = append(u.toasts, Toast{Level: "info", Message: msg}) }
func (u *uiRecorder) Navigate(path string) { u.redirect = path }

// SessionResponse is the wizard state returned after every operation.
type SessionResponse struct {
	Session  *Session       `json:"session,omitempty"`
	Calendar []calendar.Day `json:"calendar,omitempty"`
	Toasts   []Toast        `json:"toasts,omitempty"`
	Redirect string         `json:"redirect,omitempty"`
}

// StartSession opens a booking session for a clinic.
// POST /booking/{clinicID}/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "clinicID")
	if clinicID == "" {
		http.Error(w, `{"error": "clinic_id required"}`, http.StatusBadRequest)
		return
	}

	ui := &uiRecorder{}
	sess, err := h.service.Start(r.Context(), clinicID, ui, ui)
	if err != nil {
		// The patient still gets the toast and the redirect back to the
		// clinic list, so this is a 200 with UI instructions.
		h.writeResponse(w, http.StatusOK, SessionResponse{Toasts: ui.toasts, Redirect: ui.redirect})
		return
	}
	h.writeSession(w, http.StatusCreated, sess, ui)
}

// GetSession returns the current wizard state.
// GET /booking/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, sess, nil)
}

// SelectDoctor records a doctor choice.
// POST /booking/sessions/{sessionID}/doctor
func (h *Handler) SelectDoctor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DoctorID string `json:"doctorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	sess, err := h.service.SelectDoctor(r.Context(), chi.URLParam(r, "sessionID"), req.DoctorID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, sess, nil)
}

// SelectDate records a date choice and fetches availability for it.
// POST /booking/sessions/{sessionID}/date
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	ui := &uiRecorder{}
	sess, err := h.service.SelectDate(r.Context(), chi.URLParam(r, "sessionID"), req.Date, ui)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, sess, ui)
}

// SelectSlot records a time-slot choice.
// POST /booking/sessions/{sessionID}/slot
func (h *Handler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot string `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	sess, err := h.service.SelectSlot(r.Context(), chi.URLParam(r, "sessionID"), req.Slot)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, sess, nil)
}

// SetDetails records appointment type and reason.
// POST /booking/sessions/{sessionID}/details
func (h *Handler) SetDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	sess, err := h.service.SetDetails(r.Context(), chi.URLParam(r, "sessionID"), req.Type, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, sess, nil)
}

// Next advances the wizard one step.
// POST /booking/sessions/{sessionID}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Next(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, sess, nil)
}

// Back moves the wizard one step back.
// POST /booking/sessions/{sessionID}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Back(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, sess, nil)
}

// MoveMonth shifts the calendar display month.
// POST /booking/sessions/{sessionID}/month
func (h *Handler) MoveMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Delta == 0 {
		http.Error(w, `{"error": "delta must be non-zero"}`, http.StatusBadRequest)
		return
	}
	sess, err := h.service.MoveMonth(r.Context(), chi.URLParam(r, "sessionID"), req.Delta)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, sess, nil)
}

// Submit creates the appointment from the session's selection.
// POST /booking/sessions/{sessionID}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ui := &uiRecorder{}
	_, err := h.service.Submit(r.Context(), sessionID, ui, ui)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			h.writeError(w, err)
			return
		}
		// Guard failures and backend rejections carry their message as a
		// toast; the session stays alive for another attempt.
		sess, loadErr := h.service.Get(r.Context(), sessionID)
		if loadErr != nil {
			h.writeError(w, loadErr)
			return
		}
		h.writeSession(w, http.StatusOK, sess, ui)
		return
	}
	h.writeResponse(w, http.StatusOK, SessionResponse{Toasts: ui.toasts, Redirect: ui.redirect})
}

// Cancel abandons the wizard.
// DELETE /booking/sessions/{sessionID}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ui := &uiRecorder{}
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "sessionID"), ui); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResponse(w, http.StatusOK, SessionResponse{Redirect: ui.redirect})
}

func (h *Handler) writeSession(w http.ResponseWriter, status int, sess *Session, ui *uiRecorder) {
	resp := SessionResponse{Session: sess, Calendar: h.service.Calendar(sess)}
	if ui != nil {
		resp.Toasts = ui.toasts
		resp.Redirect = ui.redirect
	}
	h.writeResponse(w, status, resp)
}

func (h *Handler) writeResponse(w http.ResponseWriter, status int, resp SessionResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode wizard response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrDoctorRequired),
		errors.Is(err, ErrDateAndSlotRequired),
		errors.Is(err, ErrUnknownDoctor),
		errors.Is(err, ErrDateNotSelectable),
		errors.Is(err, ErrSlotNotAvailable),
		errors.Is(err, ErrInvalidType):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("wizard request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
