package extraction

import (
	"strings"
	"testing"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/domain/entity"
)

func TestMissingInfoResponseSingleField(t *testing.T) {
	got := MissingInfoResponse([]string{"email"})
	if !strings.Contains(got, "I still need your email address to complete") {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestMissingInfoResponseTwoFields(t *testing.T) {
	got := MissingInfoResponse([]string{"name", "email"})
	if !strings.Contains(got, "your full name and your email address") {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestMissingInfoResponseManyFields(t *testing.T) {
	got := MissingInfoResponse([]string{"name", "email", "date"})
	if !strings.Contains(got, "your full name, your email address, and your preferred date (YYYY-MM-DD)") {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestMissingInfoResponseUnknownFieldKeptVerbatim(t *testing.T) {
	got := MissingInfoResponse([]string{"valid_email"})
	if !strings.Contains(got, "a valid email address") {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestInfoRequestResponseListsRequirements(t *testing.T) {
	got := InfoRequestResponse()
	for _, want := range []string{"full name", "Email address", "YYYY-MM-DD", "HH:MM"} {
		if !strings.Contains(got, want) {
			t.Errorf("info request response missing %q", want)
		}
	}
}

func TestConfirmationResponseNewBooking(t *testing.T) {
	res := &booking.Resolution{
		BookingID: "b-123",
		Status:    entity.BookingStatusNewlyBooked,
		Details: booking.Details{
			Name:  "John Smith",
			Email: "john@example.com",
			Date:  "2024-01-25",
			Time:  "14:30",
		},
	}

	got := ConfirmationResponse(res)
	if !strings.HasPrefix(got, "Interview booked successfully:") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "Booking ID: b-123") {
		t.Errorf("confirmation missing booking ID: %q", got)
	}
}

func TestConfirmationResponseAlreadyExists(t *testing.T) {
	res := &booking.Resolution{
		BookingID: "b-123",
		Status:    entity.BookingStatusAlreadyExists,
		Details: booking.Details{
			Name:  "John Smith",
			Email: "john@example.com",
			Date:  "2024-01-25",
			Time:  "14:30",
		},
	}

	got := ConfirmationResponse(res)
	if !strings.HasPrefix(got, "Interview already scheduled:") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if strings.Contains(got, "Booking ID") {
		t.Errorf("existing booking response should not include booking ID: %q", got)
	}
}
