package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "traceparent wins",
			headers: map[string]string{TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", TraceIDHeader: "custom"},
			want:    "4bf92f3577b34da6a3ce929d0e0e4736",
		},
		{name: "x-trace-id", headers: map[string]string{TraceIDHeader: "custom"}, want: "custom"},
		{name: "bad traceparent falls through", headers: map[string]string{TraceParentHeader: "garbage", TraceIDHeader: "custom"}, want: "custom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, GetTraceID(c))
		})
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Len(t, GetTraceID(c), 32)
}

func TestLoggingMiddleware_BindsLogger(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware("/skip"))
	var fromCtx *zerolog.Logger
	r.GET("/ping", func(c *gin.Context) {
		fromCtx = zerolog.Ctx(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceIDHeader, "abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc123", w.Header().Get(TraceIDHeader))
	if assert.NotNil(t, fromCtx) {
		assert.NotEqual(t, zerolog.Disabled, fromCtx.GetLevel())
	}
}

func TestLoggingMiddleware_Levels(t *testing.T) {
	var buf bytes.Buffer
	old := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = old })

	r := gin.New()
	r.Use(LoggingMiddleware("/skip"))
	r.GET("/status/:code", func(c *gin.Context) {
		code, _ := strconv.Atoi(c.Param("code"))
		c.Status(code)
	})
	r.GET("/skip", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		code  int
		level string
	}{
		{200, "info"},
		{204, "info"},
		{400, "error"},
		{404, "error"},
		{500, "error"},
	}
	for _, tc := range tests {
		t.Run(strconv.Itoa(tc.code), func(t *testing.T) {
			buf.Reset()
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status/"+strconv.Itoa(tc.code), nil))

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
			assert.Equal(t, tc.level, line["level"])
			assert.EqualValues(t, tc.code, line["status"])
			assert.Equal(t, "/status/:code", line["route"])
		})
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/skip", nil))
	assert.Empty(t, buf.String())
}
