package extraction

import "testing"

func TestIsBookingRequest(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"explicit booking", "I would like to book an interview", true},
		{"schedule keyword", "Can we schedule something next week?", true},
		{"interview keyword", "Tell me about the interview process", true},
		{"availability pattern", "I'm available for a call on Monday", true},
		{"name with meeting", "my name is Jane and I want a meeting", true},
		{"job keyword", "I saw the job posting", true},
		{"apply keyword", "How do I apply?", true},
		{"plain question", "What does the company do?", false},
		{"greeting", "Hello there!", false},
		{"unrelated", "Tell me a fun fact about penguins", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBookingRequest(tt.message); got != tt.want {
				t.Errorf("IsBookingRequest(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}
