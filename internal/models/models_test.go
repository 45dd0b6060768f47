package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeList(t *testing.T) {
	assert.Equal(t, "[]", EncodeList(nil))
	assert.Equal(t, `["breakfast","guide"]`, EncodeList([]string{"breakfast", "guide"}))

	assert.Equal(t, []string{}, DecodeList(""))
	assert.Equal(t, []string{}, DecodeList("not json"))
	assert.Equal(t, []string{}, DecodeList("null"))
	assert.Equal(t, []string{"day 1", "day 2"}, DecodeList(`["day 1","day 2"]`))
}

func TestVehicleBookingOverlaps(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse(DateFormat, s)
		if err != nil {
			t.Fatalf("bad date %s: %v", s, err)
		}
		return d
	}

	b := &VehicleBooking{FromDate: day("2024-01-10"), ToDate: day("2024-01-12")}

	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"identical", "2024-01-10", "2024-01-12", true},
		{"contained", "2024-01-11", "2024-01-11", true},
		{"overlaps start", "2024-01-08", "2024-01-10", true},
		{"overlaps end", "2024-01-12", "2024-01-14", true},
		{"before", "2024-01-07", "2024-01-09", false},
		{"after", "2024-01-13", "2024-01-15", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Overlaps(day(tt.from), day(tt.to)))
		})
	}
}

func TestVehicleBookingSingleDay(t *testing.T) {
	d, _ := time.Parse(DateFormat, "2024-03-01")
	b := &VehicleBooking{FromDate: d, ToDate: d}
	assert.True(t, b.SingleDay())

	b.ToDate = d.AddDate(0, 0, 1)
	assert.False(t, b.SingleDay())
}
