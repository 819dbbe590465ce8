package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestCreateIfNotExists_Get_MarkDone_MarkFailed(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "idempotency-table", 48*time.Hour)

	ctx := context.Background()
	key := "test-key-1"

	created, err := s.CreateIfNotExists(ctx, key, "sess-1")
	if err != nil {
		t.Fatalf("CreateIfNotExists error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}

	// second create should return created=false (exists)
	created2, err := s.CreateIfNotExists(ctx, key, "sess-1")
	if err != nil {
		t.Fatalf("second CreateIfNotExists error: %v", err)
	}
	if created2 {
		t.Fatalf("expected created=false on duplicate create")
	}

	rec, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected record, got nil")
	}
	if rec.Status != StatusInProgress || rec.SessionID != "sess-1" {
		t.Fatalf("unexpected record %+v", rec)
	}

	if err := s.MarkDone(ctx, key, "order-1", `{"paymentUrl":"https://pay"}`, 201); err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}
	item := mock.table[key]
	if st, ok := item["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusDone {
		t.Fatalf("status not updated to DONE, got %+v", item["status"])
	}
	if oid, ok := item["order_id"].(*types.AttributeValueMemberS); !ok || oid.Value != "order-1" {
		t.Fatalf("order_id not set, got %+v", item["order_id"])
	}

	if err := s.MarkFailed(ctx, key, "failed-reason"); err != nil {
		t.Fatalf("MarkFailed error: %v", err)
	}
	item2 := mock.table[key]
	if st, ok := item2["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusFailed {
		t.Fatalf("status not updated to FAILED, got %+v", item2["status"])
	}
	if n, ok := item2["note"].(*types.AttributeValueMemberS); !ok || n.Value != "failed-reason" {
		t.Fatalf("note not set, got %+v", item2["note"])
	}
}

func TestBegin(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "idempotency-table", time.Hour)
	ctx := context.Background()

	rec, acquired, err := s.Begin(ctx, "k1", "sess-1")
	if err != nil || !acquired || rec != nil {
		t.Fatalf("first Begin: rec=%v acquired=%v err=%v", rec, acquired, err)
	}

	// duplicate while in flight
	rec, acquired, err = s.Begin(ctx, "k1", "sess-1")
	if err != nil || acquired {
		t.Fatalf("expected duplicate to be rejected, acquired=%v err=%v", acquired, err)
	}
	if rec.Status != StatusInProgress {
		t.Fatalf("expected IN_PROGRESS record, got %s", rec.Status)
	}

	// failed attempts can be retried with the same key
	if err := s.MarkFailed(ctx, "k1", "order service down"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	_, acquired, err = s.Begin(ctx, "k1", "sess-1")
	if err != nil || !acquired {
		t.Fatalf("expected FAILED record to be reclaimed, acquired=%v err=%v", acquired, err)
	}

	// completed attempts replay
	if err := s.MarkDone(ctx, "k1", "order-9", `{"ok":true}`, 201); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	rec, acquired, err = s.Begin(ctx, "k1", "sess-1")
	if err != nil || acquired {
		t.Fatalf("expected DONE record to be replayed, acquired=%v err=%v", acquired, err)
	}
	if rec.Status != StatusDone || rec.ResponseBody != `{"ok":true}` || rec.ResponseStatus != 201 {
		t.Fatalf("unexpected DONE record %+v", rec)
	}
}

func TestBegin_KeyFromAnotherSession(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "idempotency-table", time.Hour)
	ctx := context.Background()

	if _, acquired, err := s.Begin(ctx, "k1", "sess-1"); err != nil || !acquired {
		t.Fatalf("first Begin: acquired=%v err=%v", acquired, err)
	}
	if err := s.MarkDone(ctx, "k1", "order-9", `{"orderId":"order-9"}`, 201); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	rec, acquired, err := s.Begin(ctx, "k1", "sess-2")
	if !errors.Is(err, ErrKeyReused) || acquired || rec != nil {
		t.Fatalf("expected ErrKeyReused without replay, rec=%v acquired=%v err=%v", rec, acquired, err)
	}

	// a failed attempt cannot be reclaimed by another session either
	if err := s.MarkFailed(ctx, "k1", "order service down"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if _, acquired, err := s.Begin(ctx, "k1", "sess-2"); !errors.Is(err, ErrKeyReused) || acquired {
		t.Fatalf("expected ErrKeyReused for reclaim, acquired=%v err=%v", acquired, err)
	}
}

func TestAttributevalueMarshal_Unmarshal(t *testing.T) {
	rec := IdempotencyRecord{
		IdempotencyKey: "k1",
		Status:         StatusInProgress,
		SessionID:      "s1",
		CreatedAt:      time.Now().Round(time.Second),
		UpdatedAt:      time.Now().Round(time.Second),
		ExpiresAt:      time.Now().Add(24 * time.Hour).Unix(),
	}
	m, err := attributevalue.MarshalMap(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out IdempotencyRecord
	if err := attributevalue.UnmarshalMap(m, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.IdempotencyKey != rec.IdempotencyKey || out.SessionID != rec.SessionID {
		t.Fatalf("unmarshal mismatch")
	}
}
