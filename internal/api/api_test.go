package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"housevalue/server/config"
	"housevalue/server/internal/estimator"
	"housevalue/server/internal/models"
)

// MockStore is a mock implementation of the ListingStore interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetProperties(ctx context.Context, filter models.ListingFilter, page, perPage int) (models.ListingPage, error) {
	args := m.Called(filter, page, perPage)
	return args.Get(0).(models.ListingPage), args.Error(1)
}

func (m *MockStore) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	args := m.Called()
	return args.Get(0).(models.DashboardStats), args.Error(1)
}

func (m *MockStore) GetAnalytics(ctx context.Context) (models.Analytics, error) {
	args := m.Called()
	return args.Get(0).(models.Analytics), args.Error(1)
}

func (m *MockStore) GetLocations(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

const testReferenceYear = 2024

func newTestRouter(t *testing.T, store ListingStore) *gin.Engine {
	t.Helper()

	zones := config.MustDefaultZoneTable()
	est, err := estimator.New(estimator.HeuristicLinearName, estimator.Options{
		Zones:          zones,
		ConfidenceBand: 0.1,
		ReferenceYear:  testReferenceYear,
	})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Server.AllowedOrigins = []string{"*"}

	return NewRouter(cfg, NewHandler(store, est, zones, testReferenceYear, logger), logger)
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
