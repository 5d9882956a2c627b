package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryIdempotencyStore struct {
	values map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: map[string]string{}}
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := s.values[key]; exists {
		return false, nil
	}
	s.values[key] = fmt.Sprint(value)
	return true, nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (s *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func countingHandler(calls *atomic.Int64, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestIdempotencyIgnoresUnmatchedRoutes(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var calls atomic.Int64
	handler := Idempotency(store, nil)(countingHandler(&calls, http.StatusOK, `{"data":{}}`))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected passthrough, got %d calls", calls.Load())
	}
	if len(store.values) != 0 {
		t.Fatalf("unmatched route must not persist records: %v", store.values)
	}
}

func TestIdempotencyRequiresKeyOnGuardedRoutes(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var calls atomic.Int64
	handler := Idempotency(store, nil)(countingHandler(&calls, http.StatusCreated, `{"data":{}}`))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"items":[]}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if calls.Load() != 0 {
		t.Fatal("handler must not run without an Idempotency-Key")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var calls atomic.Int64
	handler := Idempotency(store, nil)(countingHandler(&calls, http.StatusCreated, `{"data":{"order_number":"AH12345678"}}`))

	body := `{"items":[{"product_id":"x","quantity":1}]}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "client-key-1")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if resp.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d", i, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), "AH12345678") {
			t.Fatalf("attempt %d: unexpected body %q", i, resp.Body.String())
		}
	}

	if calls.Load() != 1 {
		t.Fatalf("expected a single handler execution, got %d", calls.Load())
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var calls atomic.Int64
	handler := Idempotency(store, nil)(countingHandler(&calls, http.StatusCreated, `{"data":{}}`))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"qty":1}`))
	first.Header.Set("Idempotency-Key", "client-key-2")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"qty":2}`))
	second.Header.Set("Idempotency-Key", "client-key-2")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, second)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one execution, got %d", calls.Load())
	}
}

func TestIdempotencyScopesKeysPerCaller(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var calls atomic.Int64
	handler := CartSession()(Idempotency(store, nil)(countingHandler(&calls, http.StatusCreated, `{"data":{}}`)))

	body := `{"qty":1}`
	for _, cartToken := range []string{"guest-a", "guest-b"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "shared-key")
		req.Header.Set("X-Cart-Token", cartToken)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("cart %s: expected 201 got %d", cartToken, resp.Code)
		}
	}

	if calls.Load() != 2 {
		t.Fatalf("distinct callers must not share records, got %d calls", calls.Load())
	}
}

func TestIdempotencyDisabledWithoutStore(t *testing.T) {
	var calls atomic.Int64
	handler := Idempotency(nil, nil)(countingHandler(&calls, http.StatusCreated, `{"data":{}}`))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected passthrough without a store, got %d calls", calls.Load())
	}
}
