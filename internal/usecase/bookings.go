package usecase

import (
	"context"
	"fmt"
	"time"

	"LiqCast/internal/domain/models"
	domrepo "LiqCast/internal/domain/repository"
)

// BookingsUseCase provides business logic for retrieving booking history.
type BookingsUseCase struct {
	store domrepo.Storage
}

func NewBookingsUseCase(store domrepo.Storage) *BookingsUseCase {
	return &BookingsUseCase{store: store}
}

type GetBookingsParams struct {
	From  time.Time
	To    time.Time
	Limit int
}

type GetBookingsResult struct {
	From     time.Time
	To       time.Time
	Count    int
	Bookings []models.Booking
}

func (uc *BookingsUseCase) GetBookings(ctx context.Context, p GetBookingsParams) (*GetBookingsResult, error) {
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	bookings, err := uc.store.Query(ctx, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	return &GetBookingsResult{
		From:     p.From,
		To:       p.To,
		Count:    len(bookings),
		Bookings: bookings,
	}, nil
}
