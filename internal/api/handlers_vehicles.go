package api

import (
	"net/http"
	"time"

	"travelbook/internal/models"
	"travelbook/internal/service"
)

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.vehicles.ListVehicles(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"vehicles": vehicles})
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vehicle, err := s.vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"vehicle": vehicle})
}

func (s *Server) handleVehicleCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dates, err := s.vehicles.Calendar(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"booked_dates": dates})
}

type vehicleBody struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (b vehicleBody) model() *models.Vehicle {
	return &models.Vehicle{
		Name:        b.Name,
		Type:        b.Type,
		Description: b.Description,
		ImageURL:    b.ImageURL,
	}
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var body vehicleBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vehicle := body.model()
	if err := s.vehicles.CreateVehicle(r.Context(), vehicle); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "vehicle created", map[string]any{"vehicle": vehicle})
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body vehicleBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vehicle := body.model()
	vehicle.ID = id
	if err := s.vehicles.UpdateVehicle(r.Context(), vehicle); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "vehicle updated", map[string]any{"vehicle": vehicle})
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.vehicles.DeleteVehicle(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "vehicle deleted", nil)
}

func (s *Server) handleRequestVehicleBooking(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var body struct {
		VehicleID     int64  `json:"vehicle_id"`
		FromDate      string `json:"from_date"`
		ToDate        string `json:"to_date"`
		Time          string `json:"time"`
		FromPlace     string `json:"from_place"`
		ToPlace       string `json:"to_place"`
		TravelDetails string `json:"travel_details"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := service.BookingRequest{
		VehicleID:     body.VehicleID,
		Time:          body.Time,
		FromPlace:     body.FromPlace,
		ToPlace:       body.ToPlace,
		TravelDetails: body.TravelDetails,
	}
	if body.FromDate != "" {
		from, err := time.Parse(models.DateFormat, body.FromDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from_date format; expected YYYY-MM-DD")
			return
		}
		req.FromDate = from
	}
	if body.ToDate != "" {
		to, err := time.Parse(models.DateFormat, body.ToDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to_date format; expected YYYY-MM-DD")
			return
		}
		req.ToDate = to
	}

	booking, err := s.vehicles.Request(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "vehicle booking requested", map[string]any{"booking": booking})
}

func (s *Server) handleListVehicleBookings(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	bookings, err := s.vehicles.List(r.Context(), user.ID, user.IsAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"bookings": bookings})
}

func (s *Server) handleUpdateVehicleBooking(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Status   *string `json:"status"`
		FromDate *string `json:"from_date"`
		ToDate   *string `json:"to_date"`
		Time     *string `json:"time"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := service.BookingPatch{Status: body.Status, Time: body.Time}
	if body.FromDate != nil {
		from, err := time.Parse(models.DateFormat, *body.FromDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from_date format; expected YYYY-MM-DD")
			return
		}
		patch.FromDate = &from
	}
	if body.ToDate != nil {
		to, err := time.Parse(models.DateFormat, *body.ToDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to_date format; expected YYYY-MM-DD")
			return
		}
		patch.ToDate = &to
	}

	if err := s.vehicles.Update(r.Context(), user.ID, user.IsAdmin, id, patch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "vehicle booking updated", nil)
}
