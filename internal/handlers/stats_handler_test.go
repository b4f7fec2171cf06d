package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"divitrack/internal/portfolio"
	"divitrack/internal/services"
)

// --- mock stats service ---

type mockStatsService struct {
	getStatsFn           func(userID, filterMember string) (*portfolio.Stats, error)
	collectionSnapshotFn func(userID, collection string) (interface{}, error)
}

func (m *mockStatsService) GetStats(userID, filterMember string) (*portfolio.Stats, error) {
	if m.getStatsFn != nil {
		return m.getStatsFn(userID, filterMember)
	}
	return &portfolio.Stats{}, nil
}

func (m *mockStatsService) CollectionSnapshot(userID, collection string) (interface{}, error) {
	if m.collectionSnapshotFn != nil {
		return m.collectionSnapshotFn(userID, collection)
	}
	return nil, nil
}

var _ services.StatsServicer = (*mockStatsService)(nil)

func setupStatsRouter(handler *StatsHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stats", injectUserID(testUserID), handler.GetStats)
	return r
}

func TestStatsHandler_GetStats(t *testing.T) {
	t.Run("returns 200 with stats", func(t *testing.T) {
		statsSvc := &mockStatsService{
			getStatsFn: func(_, _ string) (*portfolio.Stats, error) {
				return &portfolio.Stats{
					TotalCost:        5000,
					TotalMarketValue: 6000,
					TotalDividends:   150,
					RecoveryPct:      3,
				}, nil
			},
		}
		handler := NewStatsHandler(statsSvc)
		r := setupStatsRouter(handler)

		rec := doRequest(r, "GET", "/stats", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_cost"] != float64(5000) {
			t.Errorf("expected total_cost 5000, got %v", result["total_cost"])
		}
		if result["recovery_pct"] != float64(3) {
			t.Errorf("expected recovery_pct 3, got %v", result["recovery_pct"])
		}
	})

	t.Run("passes member filter to service", func(t *testing.T) {
		var capturedFilter string
		statsSvc := &mockStatsService{
			getStatsFn: func(_, filterMember string) (*portfolio.Stats, error) {
				capturedFilter = filterMember
				return &portfolio.Stats{}, nil
			},
		}
		handler := NewStatsHandler(statsSvc)
		r := setupStatsRouter(handler)

		doRequest(r, "GET", "/stats?member=Alice", "")

		if capturedFilter != "Alice" {
			t.Errorf("expected filter Alice, got %q", capturedFilter)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewStatsHandler(&mockStatsService{})
		r := gin.New()
		r.GET("/stats", handler.GetStats)

		rec := doRequest(r, "GET", "/stats", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
