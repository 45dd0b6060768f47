package api

import (
	"net/http"
	"strconv"
	"time"

	"travelbook/internal/models"
)

func (s *Server) handleListDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := s.tours.ListDestinations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"destinations": destinations})
}

func (s *Server) handleSearchDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := s.tours.SearchDestinations(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"destinations": destinations})
}

func (s *Server) handleGetDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	destination, err := s.tours.GetDestination(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"destination": destination})
}

type destinationBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Country     string `json:"country"`
	State       string `json:"state"`
	City        string `json:"city"`
}

func (b destinationBody) model() *models.Destination {
	return &models.Destination{
		Name:        b.Name,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		Country:     b.Country,
		State:       b.State,
		City:        b.City,
	}
}

func (s *Server) handleCreateDestination(w http.ResponseWriter, r *http.Request) {
	var body destinationBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	destination := body.model()
	if err := s.tours.CreateDestination(r.Context(), destination); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "destination created", map[string]any{"destination": destination})
}

func (s *Server) handleUpdateDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body destinationBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	destination := body.model()
	destination.ID = id
	if err := s.tours.UpdateDestination(r.Context(), destination); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "destination updated", map[string]any{"destination": destination})
}

func (s *Server) handleDeleteDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tours.DeleteDestination(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "destination deleted", nil)
}

func (s *Server) handleListTours(w http.ResponseWriter, r *http.Request) {
	var destinationID int64
	if raw := r.URL.Query().Get("destination_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid destination_id")
			return
		}
		destinationID = id
	}

	tours, err := s.tours.ListTours(r.Context(), destinationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"tours": tours})
}

func (s *Server) handleGetTour(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := s.tours.TourDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"tour": detail})
}

type tourBody struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	DestinationID    int64    `json:"destination_id"`
	DurationDays     int      `json:"duration_days"`
	Price            float64  `json:"price"`
	ImageURL         string   `json:"image_url"`
	IncludedServices []string `json:"included_services"`
	Itinerary        []string `json:"itinerary"`
	MaxParticipants  int      `json:"max_participants"`
	DepartureDates   []struct {
		DepartureDate  string  `json:"departure_date"`
		AvailableSeats int     `json:"available_seats"`
		PriceModifier  float64 `json:"price_modifier"`
	} `json:"departure_dates"`
}

func (b tourBody) model() *models.Tour {
	return &models.Tour{
		Name:             b.Name,
		Description:      b.Description,
		DestinationID:    b.DestinationID,
		DurationDays:     b.DurationDays,
		Price:            b.Price,
		ImageURL:         b.ImageURL,
		IncludedServices: b.IncludedServices,
		Itinerary:        b.Itinerary,
		MaxParticipants:  b.MaxParticipants,
	}
}

func (s *Server) handleCreateTour(w http.ResponseWriter, r *http.Request) {
	var body tourBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tour := body.model()
	if err := s.tours.CreateTour(r.Context(), tour); err != nil {
		writeServiceError(w, err)
		return
	}

	// Departures may ride along with the tour itself.
	for _, d := range body.DepartureDates {
		departure, err := time.Parse(models.DateFormat, d.DepartureDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid departure_date format; expected YYYY-MM-DD")
			return
		}
		td := &models.TourDate{
			TourID:         tour.ID,
			DepartureDate:  departure,
			AvailableSeats: d.AvailableSeats,
			PriceModifier:  d.PriceModifier,
		}
		if err := s.tours.CreateTourDate(r.Context(), td); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	writeSuccess(w, http.StatusCreated, "tour created", map[string]any{"tour": tour})
}

func (s *Server) handleUpdateTour(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body tourBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tour := body.model()
	tour.ID = id
	if err := s.tours.UpdateTour(r.Context(), tour); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "tour updated", map[string]any{"tour": tour})
}

func (s *Server) handleDeleteTour(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tours.DeleteTour(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "tour deleted", nil)
}

func (s *Server) handleCreateTourDate(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		DepartureDate  string  `json:"departure_date"`
		AvailableSeats int     `json:"available_seats"`
		PriceModifier  float64 `json:"price_modifier"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	departure, err := time.Parse(models.DateFormat, body.DepartureDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid departure_date format; expected YYYY-MM-DD")
		return
	}

	td := &models.TourDate{
		TourID:         tourID,
		DepartureDate:  departure,
		AvailableSeats: body.AvailableSeats,
		PriceModifier:  body.PriceModifier,
	}
	if err := s.tours.CreateTourDate(r.Context(), td); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "tour date created", map[string]any{"tour_date": td})
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	tourID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := s.tours.AddReview(r.Context(), user.ID, tourID, body.Rating, body.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "review added", map[string]any{"review": review})
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	reviewID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := s.tours.UpdateReview(r.Context(), user.ID, user.IsAdmin, reviewID, body.Rating, body.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "review updated", map[string]any{"review": review})
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	reviewID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tours.DeleteReview(r.Context(), user.ID, user.IsAdmin, reviewID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "review deleted", nil)
}
