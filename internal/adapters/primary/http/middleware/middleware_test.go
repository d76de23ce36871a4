package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logging())
	r.GET("/items/:id", func(c *gin.Context) {
		c.JSON(status, gin.H{"id": c.Param("id")})
	})
	return r
}

func TestRequestID_MintsWhenAbsent(t *testing.T) {
	router := newTestRouter(http.StatusOK)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))

	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestID_KeepsCallerSupplied(t *testing.T) {
	router := newTestRouter(http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.Header.Set(requestIDHeader, "caller-id-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "caller-id-7", w.Header().Get(requestIDHeader))
}

func TestLogging_TagsRequestWithIDAndRoute(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	router := newTestRouter(http.StatusOK)
	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	req.Header.Set(requestIDHeader, "trace-me")
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, hook.Entries)
	entry := hook.LastEntry()
	assert.Equal(t, log.InfoLevel, entry.Level)
	assert.Equal(t, "trace-me", entry.Data["request_id"])
	assert.Equal(t, "/items/:id", entry.Data["route"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestLogging_ServerErrorsLogAtWarn(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	router := newTestRouter(http.StatusBadGateway)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))

	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}
