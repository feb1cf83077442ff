// controllers/calendar_test.go
package controllers

import (
	"testing"

	"repairpro-backend/models"
)

func TestValidatePeriods(t *testing.T) {
	cases := []struct {
		name     string
		isClosed bool
		periods  []models.Period
		wantErr  bool
	}{
		{"closed with no periods", true, nil, false},
		{"closed with periods", true, []models.Period{{Open: "08:00", Close: "12:00"}}, true},
		{"single period", false, []models.Period{{Open: "08:00", Close: "13:00"}}, false},
		{"split day", false, []models.Period{{Open: "08:00", Close: "13:00"}, {Open: "14:00", Close: "18:00"}}, false},
		{"adjacent periods", false, []models.Period{{Open: "08:00", Close: "13:00"}, {Open: "13:00", Close: "18:00"}}, false},
		{"overlapping periods", false, []models.Period{{Open: "08:00", Close: "13:00"}, {Open: "12:00", Close: "18:00"}}, true},
		{"out of order", false, []models.Period{{Open: "14:00", Close: "18:00"}, {Open: "08:00", Close: "13:00"}}, true},
		{"open after close", false, []models.Period{{Open: "13:00", Close: "08:00"}}, true},
		{"zero-length period", false, []models.Period{{Open: "08:00", Close: "08:00"}}, true},
		{"bad clock", false, []models.Period{{Open: "8am", Close: "13:00"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePeriods(tc.isClosed, tc.periods)
			if (err != nil) != tc.wantErr {
				t.Errorf("validatePeriods() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
