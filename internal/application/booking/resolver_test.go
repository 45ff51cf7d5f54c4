package booking

import (
	"context"
	"errors"
	"testing"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
)

// fakeBookingRepo 内存预约仓储
type fakeBookingRepo struct {
	bookings  []*entity.Booking
	createErr error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*entity.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBookingRepo) FindByEmailAndDate(_ context.Context, email, date string) (*entity.Booking, error) {
	for _, b := range f.bookings {
		if b.Email == email && b.Date == date {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) List(_ context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Booking], error) {
	return &repository.PagedResult[*entity.Booking]{
		Items: f.bookings,
		Total: int64(len(f.bookings)),
	}, nil
}

// fakeTransactor 直接执行回调
type fakeTransactor struct{}

func (fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *fakeBookingRepo) {
	repo := &fakeBookingRepo{}
	return NewService(repo, fakeTransactor{}), repo
}

func chatRequest() Request {
	return Request{
		Name:   "John Smith",
		Email:  "john@example.com",
		Date:   "2024-01-25",
		Time:   "14:30",
		Source: entity.BookingSourceChat,
	}
}

func TestResolveCreatesNewBooking(t *testing.T) {
	svc, repo := newTestService()

	res, err := svc.Resolve(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if res.Status != entity.BookingStatusNewlyBooked {
		t.Errorf("expected newly_booked, got %s", res.Status)
	}
	if res.BookingID == "" {
		t.Error("expected non-empty booking ID")
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("expected 1 stored booking, got %d", len(repo.bookings))
	}
	if res.Details.Email != "john@example.com" {
		t.Errorf("unexpected details email: %s", res.Details.Email)
	}
}

func TestResolveDuplicateReturnsExisting(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Resolve(ctx, chatRequest())
	if err != nil {
		t.Fatalf("first resolve returned error: %v", err)
	}

	// 同邮箱同日期，不同时间：返回已有预约原样
	req := chatRequest()
	req.Time = "16:00"
	second, err := svc.Resolve(ctx, req)
	if err != nil {
		t.Fatalf("second resolve returned error: %v", err)
	}

	if second.Status != entity.BookingStatusAlreadyExists {
		t.Errorf("expected already_exists, got %s", second.Status)
	}
	if second.BookingID != first.BookingID {
		t.Errorf("expected same booking ID, got %s and %s", first.BookingID, second.BookingID)
	}
	if second.Details.Time != "14:30" {
		t.Errorf("expected original time in details, got %s", second.Details.Time)
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("expected 1 stored booking, got %d", len(repo.bookings))
	}
}

func TestResolveDifferentDateCreatesSeparateBooking(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, chatRequest()); err != nil {
		t.Fatalf("first resolve returned error: %v", err)
	}

	req := chatRequest()
	req.Date = "2024-01-26"
	res, err := svc.Resolve(ctx, req)
	if err != nil {
		t.Fatalf("second resolve returned error: %v", err)
	}
	if res.Status != entity.BookingStatusNewlyBooked {
		t.Errorf("expected newly_booked for new date, got %s", res.Status)
	}
	if len(repo.bookings) != 2 {
		t.Fatalf("expected 2 stored bookings, got %d", len(repo.bookings))
	}
}

func TestResolveCreateFailure(t *testing.T) {
	repo := &fakeBookingRepo{createErr: errors.New("db down")}
	svc := NewService(repo, fakeTransactor{})

	if _, err := svc.Resolve(context.Background(), chatRequest()); err == nil {
		t.Fatal("expected error when create fails")
	}
}

func TestResolveDocumentSourceCarriesFilename(t *testing.T) {
	svc, _ := newTestService()

	req := chatRequest()
	req.Source = entity.BookingSourceDocument
	req.Filename = "cv.txt"
	req.Context = "Extracted from document content"

	res, err := svc.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if res.Details.Source != "document_extraction" {
		t.Errorf("unexpected source: %s", res.Details.Source)
	}
	if res.Details.Filename != "cv.txt" {
		t.Errorf("unexpected filename: %s", res.Details.Filename)
	}
	if res.Details.Context != "Extracted from document content" {
		t.Errorf("unexpected context: %s", res.Details.Context)
	}
}
