package service

import (
	"context"
	"strings"

	"travelbook/internal/domain"
	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

type TourService struct {
	store  domain.CatalogStore
	logger *zerolog.Logger
}

func NewTourService(store domain.CatalogStore, logger *zerolog.Logger) *TourService {
	return &TourService{store: store, logger: logger}
}

func (s *TourService) CreateDestination(ctx context.Context, d *models.Destination) error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("destination name is required")
	}
	if strings.TrimSpace(d.Country) == "" {
		return invalid("country is required")
	}
	return s.store.CreateDestination(ctx, d)
}

func (s *TourService) GetDestination(ctx context.Context, id int64) (*models.Destination, error) {
	return s.store.GetDestination(ctx, id)
}

func (s *TourService) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	return s.store.ListDestinations(ctx)
}

func (s *TourService) SearchDestinations(ctx context.Context, term string) ([]models.Destination, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invalid("search term is required")
	}
	return s.store.SearchDestinations(ctx, term)
}

func (s *TourService) UpdateDestination(ctx context.Context, d *models.Destination) error {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Country) == "" {
		return invalid("destination name and country are required")
	}
	return s.store.UpdateDestination(ctx, d)
}

// DeleteDestination removes a destination. Destinations with tours cannot be
// deleted.
func (s *TourService) DeleteDestination(ctx context.Context, id int64) error {
	return s.store.DeleteDestination(ctx, id)
}

func (s *TourService) CreateTour(ctx context.Context, tour *models.Tour) error {
	if strings.TrimSpace(tour.Name) == "" {
		return invalid("tour name is required")
	}
	if tour.Price <= 0 {
		return invalid("price must be positive")
	}
	if tour.DurationDays <= 0 {
		return invalid("duration_days must be positive")
	}
	if _, err := s.store.GetDestination(ctx, tour.DestinationID); err != nil {
		return err
	}
	return s.store.CreateTour(ctx, tour)
}

func (s *TourService) GetTour(ctx context.Context, id int64) (*models.Tour, error) {
	return s.store.GetTour(ctx, id)
}

// ListTours returns all tours, or only those of one destination when
// destinationID is positive.
func (s *TourService) ListTours(ctx context.Context, destinationID int64) ([]models.Tour, error) {
	return s.store.ListTours(ctx, destinationID)
}

func (s *TourService) UpdateTour(ctx context.Context, tour *models.Tour) error {
	if strings.TrimSpace(tour.Name) == "" {
		return invalid("tour name is required")
	}
	if tour.Price <= 0 {
		return invalid("price must be positive")
	}
	if _, err := s.store.GetDestination(ctx, tour.DestinationID); err != nil {
		return err
	}
	return s.store.UpdateTour(ctx, tour)
}

// DeleteTour removes a tour and its departures. Tours with bookings cannot be
// deleted.
func (s *TourService) DeleteTour(ctx context.Context, id int64) error {
	return s.store.DeleteTour(ctx, id)
}

func (s *TourService) CreateTourDate(ctx context.Context, td *models.TourDate) error {
	if td.DepartureDate.IsZero() {
		return invalid("departure_date is required")
	}
	if td.AvailableSeats < 0 {
		return invalid("available_seats cannot be negative")
	}
	if td.PriceModifier <= 0 {
		td.PriceModifier = 1.0
	}
	if _, err := s.store.GetTour(ctx, td.TourID); err != nil {
		return err
	}
	return s.store.CreateTourDate(ctx, td)
}

func (s *TourService) ListTourDates(ctx context.Context, tourID int64) ([]models.TourDate, error) {
	if _, err := s.store.GetTour(ctx, tourID); err != nil {
		return nil, err
	}
	return s.store.ListTourDates(ctx, tourID)
}

// TourDetail is a tour with its departures, reviews and aggregate rating.
type TourDetail struct {
	models.Tour
	Dates         []models.TourDate     `json:"dates"`
	Reviews       []models.ReviewDetail `json:"reviews"`
	AverageRating float64               `json:"average_rating"`
	ReviewCount   int                   `json:"review_count"`
}

func (s *TourService) TourDetail(ctx context.Context, id int64) (*TourDetail, error) {
	tour, err := s.store.GetTour(ctx, id)
	if err != nil {
		return nil, err
	}

	dates, err := s.store.ListTourDates(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.ListTourReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.store.TourRating(ctx, id)
	if err != nil {
		return nil, err
	}

	return &TourDetail{
		Tour:          *tour,
		Dates:         dates,
		Reviews:       reviews,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

// AddReview records a rating for a tour. Only travellers with a confirmed
// booking may review, once per tour.
func (s *TourService) AddReview(ctx context.Context, userID, tourID int64, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}
	if _, err := s.store.GetTour(ctx, tourID); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:  userID,
		TourID:  tourID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("review_id", review.ID).Int64("tour_id", tourID).Msg("review added")
	return review, nil
}

func (s *TourService) ListTourReviews(ctx context.Context, tourID int64) ([]models.ReviewDetail, error) {
	if _, err := s.store.GetTour(ctx, tourID); err != nil {
		return nil, err
	}
	return s.store.ListTourReviews(ctx, tourID)
}

// UpdateReview edits a review's rating or comment. Author or admin only.
func (s *TourService) UpdateReview(ctx context.Context, actorID int64, isAdmin bool, reviewID int64, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}

	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != actorID && !isAdmin {
		return nil, ErrForbidden
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *TourService) DeleteReview(ctx context.Context, actorID int64, isAdmin bool, reviewID int64) error {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != actorID && !isAdmin {
		return ErrForbidden
	}
	return s.store.DeleteReview(ctx, reviewID)
}
