package api

import (
	"fmt"
	"net/http"
	"time"

	"travelbook/internal/service"
)

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	bookings, err := s.bookings.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"bookings": bookings})
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var body struct {
		TourDateID      int64  `json:"tour_date_id"`
		Participants    int    `json:"number_of_participants"`
		SpecialRequests string `json:"special_requests"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.Create(r.Context(), user.ID, body.TourDateID, body.Participants, body.SpecialRequests)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "booking created", map[string]any{"booking": booking})
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := s.bookings.Get(r.Context(), user.ID, user.IsAdmin, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"booking": detail})
}

func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		SpecialRequests *string `json:"special_requests"`
		BookingStatus   *string `json:"booking_status"`
		PaymentStatus   *string `json:"payment_status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.bookings.Update(r.Context(), user.ID, user.IsAdmin, id, service.UpdateRequest{
		SpecialRequests: body.SpecialRequests,
		BookingStatus:   body.BookingStatus,
		PaymentStatus:   body.PaymentStatus,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "booking updated successfully", nil)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.bookings.Cancel(r.Context(), user.ID, user.IsAdmin, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "booking cancelled successfully", nil)
}

func (s *Server) handleAdminListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"bookings": bookings})
}

func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	data, err := s.bookings.Export(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
