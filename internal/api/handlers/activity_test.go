package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/secret"
	"github.com/ndewijer/Broker-Document-Importer/internal/testutil"
)

func setupActivityHandler(t *testing.T, box *secret.Box) (*ActivityHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewActivityHandler(testutil.NewTestActivityService(t, db, box)), db
}

func TestActivityHandler_Activities(t *testing.T) {
	handler, db := setupActivityHandler(t, nil)

	buy := testutil.NewActivity().WithDate("2020-02-24").Build(t, db)
	dividend := testutil.NewActivity().
		WithType(model.ActivityDividend).
		WithISIN("GB00B03MLX29").
		WithDate("2020-03-23").
		Build(t, db)

	tests := []struct {
		name    string
		params  map[string]string
		wantIDs []string
	}{
		{"no filters, newest first", nil, []string{dividend.ID, buy.ID}},
		{"by type", map[string]string{"type": "Buy"}, []string{buy.ID}},
		{"by isin", map[string]string{"isin": "GB00B03MLX29"}, []string{dividend.ID}},
		{"by date range", map[string]string{"start_date": "2020-03-01", "end_date": "2020-03-31"}, []string{dividend.ID}},
		{"nothing matches", map[string]string{"end_date": "2019-12-31"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/activity", tt.params)
			w := httptest.NewRecorder()

			handler.Activities(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}
			var got []model.ImportedActivity
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&got)

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Expected %d activities, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}

	t.Run("returns 400 for invalid filters", func(t *testing.T) {
		for _, params := range []map[string]string{
			{"type": "Transfer"},
			{"start_date": "24.02.2020"},
			{"start_date": "2020-03-01", "end_date": "2020-02-01"},
		} {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/activity", params)
			w := httptest.NewRecorder()

			handler.Activities(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("%v: expected 400, got %d", params, w.Code)
			}
		}
	})

	t.Run("returns 500 on database error", func(t *testing.T) {
		handler, db := setupActivityHandler(t, nil)
		db.Close()

		w := httptest.NewRecorder()
		handler.Activities(w, httptest.NewRequest(http.MethodGet, "/api/activity", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

func TestActivityHandler_GetActivity(t *testing.T) {
	handler, db := setupActivityHandler(t, nil)
	stored := testutil.NewActivity().Build(t, db)

	t.Run("returns the stored activity", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/activity/"+stored.ID, map[string]string{"uuid": stored.ID})
		w := httptest.NewRecorder()

		handler.GetActivity(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var got model.ImportedActivity
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&got)

		if got.ID != stored.ID || !got.Activity.Equal(stored.Activity) {
			t.Errorf("Expected %+v, got %+v", stored, got)
		}
	})

	t.Run("returns 404 for unknown ID", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/activity/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.GetActivity(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestActivityHandler_DeleteActivity(t *testing.T) {
	handler, db := setupActivityHandler(t, nil)
	stored := testutil.NewActivity().Build(t, db)
	params := map[string]string{"uuid": stored.ID}

	w := httptest.NewRecorder()
	handler.DeleteActivity(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/api/activity/"+stored.ID, params))
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.DeleteActivity(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/api/activity/"+stored.ID, params))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}

func TestActivityHandler_ReparseActivity(t *testing.T) {
	t.Run("reports an unchanged activity", func(t *testing.T) {
		box := testutil.NewTestBox(t)
		handler, db := setupActivityHandler(t, box)

		imported, err := testutil.NewTestImportServiceWithBox(t, db, box).Import(context.Background(), model.Document{
			Name: "sell.txt",
			Text: testutil.LoadSample(t, "sell_limit_order_tesla.txt"),
		})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/activity/"+imported.ID+"/reparse", map[string]string{"uuid": imported.ID})
		w := httptest.NewRecorder()

		handler.ReparseActivity(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var result model.ReparseResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Changed || result.ID != imported.ID || result.Current.Type != model.ActivitySell {
			t.Errorf("Unexpected result %+v", result)
		}
	})

	t.Run("returns 409 when no source was retained", func(t *testing.T) {
		handler, db := setupActivityHandler(t, testutil.NewTestBox(t))
		stored := testutil.NewActivity().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/activity/"+stored.ID+"/reparse", map[string]string{"uuid": stored.ID})
		w := httptest.NewRecorder()

		handler.ReparseActivity(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown ID", func(t *testing.T) {
		handler, _ := setupActivityHandler(t, testutil.NewTestBox(t))
		id := testutil.MakeID()

		w := httptest.NewRecorder()
		handler.ReparseActivity(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/activity/"+id+"/reparse", map[string]string{"uuid": id}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
