package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/application/extraction"
	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	apperrors "rag-interview-api/pkg/errors"
)

type silentGenerator struct{}

func (silentGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

type memBookingRepo struct {
	bookings []*entity.Booking
}

func (m *memBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *memBookingRepo) GetByID(_ context.Context, id string) (*entity.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperrors.ErrBookingNotFound
}

func (m *memBookingRepo) FindByEmailAndDate(_ context.Context, email, date string) (*entity.Booking, error) {
	for _, b := range m.bookings {
		if b.Email == email && b.Date == date {
			return b, nil
		}
	}
	return nil, nil
}

func (m *memBookingRepo) List(_ context.Context, _ repository.Pagination) (*repository.PagedResult[*entity.Booking], error) {
	return &repository.PagedResult[*entity.Booking]{Items: m.bookings, Total: int64(len(m.bookings))}, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newBookingRouter() (*gin.Engine, *memBookingRepo) {
	gin.SetMode(gin.TestMode)
	repo := &memBookingRepo{}
	resolver := booking.NewService(repo, passthroughTx{})
	engine := extraction.NewEngine(silentGenerator{}, &memDocRepo{}, resolver, 2000)
	h := NewBookingHandler(engine, repo)

	r := gin.New()
	r.POST("/v1/bookings", h.Create)
	r.GET("/v1/bookings", h.List)
	r.GET("/v1/bookings/:id", h.Get)
	return r, repo
}

func TestCreateBookingComplete(t *testing.T) {
	r, repo := newBookingRouter()

	w := postJSON(t, r, "/v1/bookings", map[string]string{
		"name":  "John Smith",
		"email": "john@example.com",
		"date":  "2024-01-25",
		"time":  "14:30",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data booking.Resolution `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.Status != entity.BookingStatusNewlyBooked {
		t.Errorf("expected newly_booked, got %s", resp.Data.Status)
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("expected 1 stored booking, got %d", len(repo.bookings))
	}
}

func TestCreateBookingMissingFields(t *testing.T) {
	r, _ := newBookingRouter()

	w := postJSON(t, r, "/v1/bookings", map[string]string{"name": "John Smith"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete booking, got %d", w.Code)
	}

	var resp struct {
		Message string `json:"message"`
		Error   struct {
			MissingFields []string `json:"missing_fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.HasPrefix(resp.Message, "Please provide: ") {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if len(resp.Error.MissingFields) != 3 {
		t.Errorf("expected email/date/time missing, got %v", resp.Error.MissingFields)
	}
}

func TestCreateBookingDuplicateReturnsExisting(t *testing.T) {
	r, _ := newBookingRouter()

	body := map[string]string{
		"name":  "John Smith",
		"email": "john@example.com",
		"date":  "2024-01-25",
		"time":  "14:30",
	}
	first := postJSON(t, r, "/v1/bookings", body)
	if first.Code != http.StatusCreated {
		t.Fatalf("first booking failed: %d", first.Code)
	}

	second := postJSON(t, r, "/v1/bookings", body)
	if second.Code != http.StatusCreated {
		t.Fatalf("duplicate booking request failed: %d", second.Code)
	}

	var resp struct {
		Data booking.Resolution `json:"data"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.Status != entity.BookingStatusAlreadyExists {
		t.Errorf("expected already_exists, got %s", resp.Data.Status)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	r, _ := newBookingRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
