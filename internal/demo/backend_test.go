package demo

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/booking-portal/internal/backend"
	"github.com/clinicbook/booking-portal/pkg/logging"
)

// The demo backend is exercised through the real client so the two stay in
// agreement about paths, query parameters, and the response envelope.
func newDemoClient(t *testing.T) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(NewHandler().Routes())
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL, logging.New("error"))
}

func TestGetClinic(t *testing.T) {
	client := newDemoClient(t)

	clinic, err := client.GetClinic(context.Background(), "demo-clinic-1")
	require.NoError(t, err)
	assert.Equal(t, "Phòng khám Đa khoa Sài Gòn", clinic.Name)

	_, err = client.GetClinic(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "Không tìm thấy phòng khám", backend.ErrorMessage(err))
}

func TestListDoctorsFiltersByClinic(t *testing.T) {
	client := newDemoClient(t)

	doctors, err := client.ListDoctors(context.Background(), "demo-clinic-1")
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	for _, d := range doctors {
		assert.Equal(t, "demo-clinic-1", d.ClinicID)
		assert.NotEmpty(t, d.WorkingDays)
	}
}

func TestAvailableSlotsDeterministic(t *testing.T) {
	client := newDemoClient(t)

	first, err := client.GetAvailableSlots(context.Background(), "demo-clinic-1", "demo-doc-1", "2026-09-11")
	require.NoError(t, err)
	second, err := client.GetAvailableSlots(context.Background(), "demo-clinic-1", "demo-doc-1", "2026-09-11")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, "demo-doc-1", first[0].Doctor.ID)
	assert.Len(t, first[0].Slots, 15)
}

func TestBookingTakesSlotOutOfCirculation(t *testing.T) {
	client := newDemoClient(t)

	req := backend.CreateAppointmentRequest{
		ClinicID:        "demo-clinic-1",
		DoctorID:        "demo-doc-1",
		AppointmentDate: "2026-09-11",
		TimeSlot:        "09:00",
		Type:            "consultation",
	}
	appt, err := client.CreateAppointment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pending", appt.Status)

	groups, err := client.GetAvailableSlots(context.Background(), "demo-clinic-1", "demo-doc-1", "2026-09-11")
	require.NoError(t, err)
	for _, slot := range groups[0].Slots {
		if slot.Time == "09:00" {
			assert.False(t, slot.Available)
		}
	}
}

func TestDoubleBookingRejected(t *testing.T) {
	client := newDemoClient(t)

	req := backend.CreateAppointmentRequest{
		ClinicID:        "demo-clinic-1",
		DoctorID:        "demo-doc-1",
		AppointmentDate: "2026-09-11",
		TimeSlot:        "10:00",
		Type:            "consultation",
	}
	_, err := client.CreateAppointment(context.Background(), req)
	require.NoError(t, err)

	_, err = client.CreateAppointment(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Khung giờ này đã được đặt", backend.ErrorMessage(err))
}
