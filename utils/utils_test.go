package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	up := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { up.Close(); down.Close() })

	status := CheckHealth(context.Background(), HealthChecks{
		Redis:        map[string]*redis.Client{"otp": up},
		CatalogState: func() string { return "closed" },
		SessionCount: func() int { return 3 },
	})
	assert.True(t, status.Healthy())
	assert.Nil(t, status.Mongo)
	assert.Equal(t, 3, status.Sessions)
	assert.Equal(t, status, GetHealthStatus())

	status = CheckHealth(context.Background(), HealthChecks{
		Redis: map[string]*redis.Client{"otp": up, "queue": down},
	})
	assert.False(t, status.Healthy())
	assert.False(t, status.Redis["queue"])

	assert.False(t, HealthStatus{Catalog: "open"}.Healthy())
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("boom") })
	r.GET("/bad", func(c *gin.Context) { JSONError(c, http.StatusBadRequest, "Invalid request", "missing field") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid request","details":"missing field"}`, w.Body.String())
}
