package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"advisoriq/internal/models"
	"advisoriq/internal/pagination"
	"advisoriq/internal/services"
)

type mockSnapshotService struct {
	computeFn      func(recordedAt time.Time) (int, error)
	getSnapshotsFn func(advisorID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PerformanceSnapshot], error)
}

func (m *mockSnapshotService) ComputeAndRecordSnapshots(recordedAt time.Time) (int, error) {
	if m.computeFn != nil {
		return m.computeFn(recordedAt)
	}
	return 0, nil
}

func (m *mockSnapshotService) GetSnapshots(advisorID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PerformanceSnapshot], error) {
	if m.getSnapshotsFn != nil {
		return m.getSnapshotsFn(advisorID, from, to, page)
	}
	resp := pagination.NewPageResponse([]models.PerformanceSnapshot{}, 1, 20, 0)
	return &resp, nil
}

var _ services.SnapshotServicer = (*mockSnapshotService)(nil)

func setupSnapshotRouter(handler *SnapshotHandler) *gin.Engine {
	r := gin.New()
	r.POST("/pipeline/snapshots", handler.ComputeSnapshots)
	r.GET("/performance/snapshots", injectUser(testUserID, models.RoleOperations), handler.GetSnapshots)
	return r
}

func TestSnapshotHandler_ComputeSnapshots(t *testing.T) {
	t.Run("returns the recorded count", func(t *testing.T) {
		var got time.Time
		svc := &mockSnapshotService{
			computeFn: func(recordedAt time.Time) (int, error) {
				got = recordedAt
				return 3, nil
			},
		}
		r := setupSnapshotRouter(NewSnapshotHandler(svc))

		rec := doRequest(r, "POST", "/pipeline/snapshots", `{"recorded_at":"2024-06-30T23:59:59Z"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["snapshots_recorded"].(float64) != 3 {
			t.Error("expected 3 snapshots recorded")
		}
		if got.Month() != time.June || got.Day() != 30 {
			t.Errorf("unexpected recorded_at %v", got)
		}
	})

	t.Run("returns 400 without recorded_at", func(t *testing.T) {
		r := setupSnapshotRouter(NewSnapshotHandler(&mockSnapshotService{}))

		rec := doRequest(r, "POST", "/pipeline/snapshots", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSnapshotHandler_GetSnapshots(t *testing.T) {
	t.Run("parses range and advisor", func(t *testing.T) {
		var gotID string
		var gotFrom, gotTo time.Time
		svc := &mockSnapshotService{
			getSnapshotsFn: func(advisorID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PerformanceSnapshot], error) {
				gotID, gotFrom, gotTo = advisorID, from, to
				resp := pagination.NewPageResponse([]models.PerformanceSnapshot{{AdvisorID: advisorID}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupSnapshotRouter(NewSnapshotHandler(svc))

		rec := doRequest(r, "GET", "/performance/snapshots?advisor_id=adv-1&from_date=2024-01-01&to_date=2024-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != "adv-1" || gotFrom.Month() != time.January || gotTo.Month() != time.March || gotTo.Day() != 31 {
			t.Errorf("unexpected args %s %v %v", gotID, gotFrom, gotTo)
		}
	})

	t.Run("returns 400 on missing params", func(t *testing.T) {
		r := setupSnapshotRouter(NewSnapshotHandler(&mockSnapshotService{}))

		for _, q := range []string{
			"from_date=2024-01-01&to_date=2024-02-01",
			"advisor_id=a&to_date=2024-02-01",
			"advisor_id=a&from_date=2024-01-01",
			"advisor_id=a&from_date=bad&to_date=2024-02-01",
		} {
			rec := doRequest(r, "GET", "/performance/snapshots?"+q, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", q, rec.Code)
			}
		}
	})
}
