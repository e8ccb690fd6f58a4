package services

import (
	"testing"

	"restaurant_ops_backend/internal/models"
)

func TestCanTransitionReservation(t *testing.T) {
	tests := []struct {
		name string
		from models.ReservationStatus
		to   models.ReservationStatus
		want bool
	}{
		{"confirmed to seated", models.ReservationStatusConfirmed, models.ReservationStatusSeated, true},
		{"confirmed to cancelled", models.ReservationStatusConfirmed, models.ReservationStatusCancelled, true},
		{"confirmed to no-show", models.ReservationStatusConfirmed, models.ReservationStatusNoShow, true},
		{"confirmed straight to completed", models.ReservationStatusConfirmed, models.ReservationStatusCompleted, false},
		{"seated to completed", models.ReservationStatusSeated, models.ReservationStatusCompleted, true},
		{"seated to cancelled", models.ReservationStatusSeated, models.ReservationStatusCancelled, false},
		{"seated to no-show", models.ReservationStatusSeated, models.ReservationStatusNoShow, false},
		{"completed is terminal", models.ReservationStatusCompleted, models.ReservationStatusSeated, false},
		{"cancelled is terminal", models.ReservationStatusCancelled, models.ReservationStatusSeated, false},
		{"no-show is terminal", models.ReservationStatusNoShow, models.ReservationStatusSeated, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canTransitionReservation(tt.from, tt.to); got != tt.want {
				t.Errorf("canTransitionReservation(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
