package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltapay/custody/internal/usecase/mocks"
)

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"tr-1"}`))
	}))

	first := httptest.NewRequest(http.MethodPost, "/transfers", nil)
	first.Header.Set(IdempotencyKeyHeader, "key-1")
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, first)

	require.Equal(t, http.StatusCreated, rec1.Code)
	require.Equal(t, 1, calls)

	second := httptest.NewRequest(http.MethodPost, "/transfers", nil)
	second.Header.Set(IdempotencyKeyHeader, "key-1")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, second)

	assert.Equal(t, 1, calls, "handler must not run again on replay")
	assert.Equal(t, `{"id":"tr-1"}`, rec2.Body.String())
	assert.Equal(t, "true", rec2.Header().Get("X-Idempotency-Replay"))
}

func TestIdempotencyMiddleware_SkipsReadsAndMissingKey(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("ok"))
	}))

	get := httptest.NewRequest(http.MethodGet, "/transfers", nil)
	get.Header.Set(IdempotencyKeyHeader, "key-1")
	handler.ServeHTTP(httptest.NewRecorder(), get)

	post := httptest.NewRequest(http.MethodPost, "/transfers", nil)
	handler.ServeHTTP(httptest.NewRecorder(), post)

	assert.Equal(t, 2, calls, "reads and keyless requests pass through")
}

func TestIdempotencyMiddleware_DoesNotReplayFailures(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":"insufficient funds"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"tr-1"}`))
	}))

	first := httptest.NewRequest(http.MethodPost, "/transfers", nil)
	first.Header.Set(IdempotencyKeyHeader, "key-1")
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, first)
	require.Equal(t, http.StatusUnprocessableEntity, rec1.Code)

	// A failed attempt is retryable with the same key.
	second := httptest.NewRequest(http.MethodPost, "/transfers", nil)
	second.Header.Set(IdempotencyKeyHeader, "key-1")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, second)

	assert.Equal(t, 2, calls)
	assert.Equal(t, http.StatusCreated, rec2.Code)
}
