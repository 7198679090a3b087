package repo

import (
	"errors"
	"testing"
	"time"

	"tokomini/internal/models"
)

func pendingOrder(number, sessionID string, createdAt time.Time) models.Order {
	return models.Order{
		Number:    number,
		SessionID: sessionID,
		Status:    models.OrderStatusPending,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(time.Hour),
	}
}

func TestOrderCreateAndGet(t *testing.T) {
	orders := NewInMemoryOrderRepository()

	want := pendingOrder("ORD-20260830-AAAA1111", "s1", time.Now())
	if _, err := orders.Create(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := orders.GetByNumber(want.Number)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != "s1" || got.Status != models.OrderStatusPending {
		t.Errorf("unexpected order: %+v", got)
	}

	if _, err := orders.GetByNumber("ORD-20260830-FFFFFFFF"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderSetPaid(t *testing.T) {
	orders := NewInMemoryOrderRepository()
	orders.Create(pendingOrder("ORD-20260830-AAAA1111", "s1", time.Now()))

	paidAt := time.Now()
	got, err := orders.SetPaid("ORD-20260830-AAAA1111", "TXN-ABCDEF123456", paidAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.OrderStatusPaid {
		t.Errorf("expected status paid, got %q", got.Status)
	}
	if got.TransactionID != "TXN-ABCDEF123456" {
		t.Errorf("unexpected transaction ID %q", got.TransactionID)
	}
	if got.PaidAt == nil || !got.PaidAt.Equal(paidAt) {
		t.Errorf("unexpected paid time %v", got.PaidAt)
	}
}

func TestOrderSetPaidRejectsNonPending(t *testing.T) {
	orders := NewInMemoryOrderRepository()
	orders.Create(pendingOrder("ORD-20260830-AAAA1111", "s1", time.Now()))
	orders.SetPaid("ORD-20260830-AAAA1111", "TXN-ABCDEF123456", time.Now())

	if _, err := orders.SetPaid("ORD-20260830-AAAA1111", "TXN-000000000000", time.Now()); !errors.Is(err, ErrOrderNotPending) {
		t.Errorf("expected ErrOrderNotPending, got %v", err)
	}
	if _, err := orders.SetPaid("ORD-20260830-FFFFFFFF", "TXN-000000000000", time.Now()); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderListBySessionNewestFirst(t *testing.T) {
	orders := NewInMemoryOrderRepository()
	base := time.Now()
	orders.Create(pendingOrder("ORD-20260830-AAAA1111", "s1", base))
	orders.Create(pendingOrder("ORD-20260830-BBBB2222", "s1", base.Add(time.Minute)))
	orders.Create(pendingOrder("ORD-20260830-CCCC3333", "s2", base))

	got, err := orders.ListBySession("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
	if got[0].Number != "ORD-20260830-BBBB2222" || got[1].Number != "ORD-20260830-AAAA1111" {
		t.Errorf("orders not newest first: %s, %s", got[0].Number, got[1].Number)
	}
}
