package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/store"
)

func TestGetProgress(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	service := &mockRevisionService{
		progressFn: func(ctx context.Context) *domain.RevisionProgress {
			return &domain.RevisionProgress{
				Records: []domain.SentenceRecord{
					{Original: "Bonjour", French: "Hello", Mastered: true, Timestamp: now},
				},
				Learned:      []domain.RecordKey{{Original: "Bonjour"}},
				LastReviewed: now,
			}
		},
	}
	handler := NewRevisionHandler(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/revision/progress", nil)
	w := httptest.NewRecorder()
	handler.GetProgress(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp domain.RevisionProgress
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Records) != 1 || len(resp.Learned) != 1 {
		t.Errorf("unexpected progress payload: %+v", resp)
	}
	if !resp.LastReviewed.Equal(now) {
		t.Errorf("expected lastReviewed %v, got %v", now, resp.LastReviewed)
	}
}

func TestStartRevisionPass(t *testing.T) {
	service := &mockRevisionService{
		startPassFn: func(ctx context.Context) []domain.SentenceRecord {
			return []domain.SentenceRecord{
				{Original: "Un", French: "One", Mastered: true},
				{Original: "Deux", French: "Two", Mastered: true},
			}
		},
	}
	handler := NewRevisionHandler(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/revision/pass", nil)
	w := httptest.NewRecorder()
	handler.StartPass(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp []domain.SentenceRecord
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("expected 2 records in the pass, got %d", len(resp))
	}
}

func TestRecordRevisionResult(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           map[string]interface{}{"original": "Bonjour", "correct": true},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Missing Original",
			body:           map[string]interface{}{"correct": false},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Correct",
			body:           map[string]interface{}{"original": "Bonjour"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown Record",
			body:           map[string]interface{}{"original": "Inconnu", "correct": true},
			serviceErr:     fmt.Errorf("lookup: %w", store.ErrRecordNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Internal Error",
			body:           map[string]interface{}{"original": "Bonjour", "correct": true},
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service := &mockRevisionService{
				recordResultFn: func(ctx context.Context, key domain.RecordKey, correct bool) error {
					return tc.serviceErr
				},
			}
			handler := NewRevisionHandler(service, nil)

			w := postJSON(t, handler.RecordResult, "/api/revision/result", tc.body)

			if w.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}
		})
	}
}
