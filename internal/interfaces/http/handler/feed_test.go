package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	feedapp "github.com/club21/orderfeed/internal/application/feed"
	"github.com/club21/orderfeed/internal/interfaces/http/dto"
)

type fakeRunner struct {
	sales  *feedapp.RunResult
	orders *feedapp.RunResult
	err    error
}

func (f *fakeRunner) RunSalesFeed(ctx context.Context) (*feedapp.RunResult, error) {
	return f.sales, f.err
}

func (f *fakeRunner) RunOrderFeed(ctx context.Context) (*feedapp.RunResult, error) {
	return f.orders, f.err
}

func setupFeedRouter(runner FeedRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewFeedHandler(runner).RegisterRoutes(engine.Group(""))
	return engine
}

func TestFeedHandler_RunSales(t *testing.T) {
	runner := &fakeRunner{
		sales: &feedapp.RunResult{
			RunID:          "run-1",
			Feed:           "sales",
			OrdersExported: 3,
			Rows:           5,
			FileName:       "S21_SH_SALES_20250302_000000.csv",
		},
	}
	engine := setupFeedRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/feeds/sales", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "run-1", data["run_id"])
	assert.Equal(t, "sales", data["feed"])
	assert.Equal(t, float64(5), data["rows"])
}

func TestFeedHandler_RunOrders(t *testing.T) {
	runner := &fakeRunner{
		orders: &feedapp.RunResult{RunID: "run-2", Feed: "orders"},
	}
	engine := setupFeedRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/feeds/orders", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "run-2")
}

func TestFeedHandler_RunFails(t *testing.T) {
	engine := setupFeedRouter(&fakeRunner{err: errors.New("upstream down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/feeds/sales", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FEED_RUN_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "upstream down")
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHealthHandler("orderfeed").RegisterRoutes(engine.Group(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), "orderfeed")
}
