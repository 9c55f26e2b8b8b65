package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finsuite/backend/internal/infrastructure/auth"
	"github.com/finsuite/backend/internal/infrastructure/config"
	"github.com/finsuite/backend/internal/interfaces/http/handler"
	"github.com/finsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "product-service", Env: "development", Port: "8020"},
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			CORSAllowOrigins: []string{"http://localhost:3000"},
			CORSAllowMethods: []string{"GET", "POST"},
			CORSAllowHeaders: []string{"Authorization", "Content-Type"},
		},
	}
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-characters",
		AccessTokenExpiration: time.Minute,
		Issuer:                "router-test",
	})
}

func TestRouter(t *testing.T) {
	t.Run("mounts resources under the API prefix", func(t *testing.T) {
		engine := gin.New()
		res := NewResource("/test").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

		NewRouter(engine).Register(res).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("router middleware runs before resource routes", func(t *testing.T) {
		engine := gin.New()
		res := NewResource("/test").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("seen")) })

		NewRouter(engine).
			Use(func(c *gin.Context) { c.Set("seen", "yes"); c.Next() }).
			Register(res).
			Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
		assert.Equal(t, "yes", w.Body.String())
	})
}

func TestResource(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		NewResource("/test").
			GET("/a", ok).POST("/a", ok).PUT("/a/:id", ok).DELETE("/a/:id", ok).
			RegisterRoutes(engine.Group(APIPrefix))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/test/a"},
			{http.MethodPost, "/api/v1/test/a"},
			{http.MethodPut, "/api/v1/test/a/1"},
			{http.MethodDelete, "/api/v1/test/a/1"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("guards apply only to routes added through the view", func(t *testing.T) {
		engine := gin.New()
		tag := func(v string) gin.HandlerFunc {
			return func(c *gin.Context) { c.Header("X-Guard", c.Writer.Header().Get("X-Guard")+v); c.Next() }
		}

		res := NewResource("/test")
		res.With(tag("a")).GET("/one", ok).With(tag("b")).GET("/two", ok)
		res.GET("/open", ok)
		res.RegisterRoutes(engine.Group(APIPrefix))

		for path, want := range map[string]string{
			"/api/v1/test/one":  "a",
			"/api/v1/test/two":  "ab",
			"/api/v1/test/open": "",
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, path)
			assert.Equal(t, want, w.Header().Get("X-Guard"), path)
		}
	})
}

func routeSet(engine *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, r := range engine.Routes() {
		set[r.Method+" "+r.Path] = true
	}
	return set
}

func TestServiceRoutes(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).
		Register(ProductRoutes(handler.NewProductHandler(nil))).
		Register(ClientRoutes(handler.NewClientHandler(nil))).
		Register(UserRoutes(handler.NewUserHandler(nil))).
		Setup()

	routes := routeSet(engine)
	for _, want := range []string{
		"POST /api/v1/products",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"GET /api/v1/products/client/:clientId",
		"PUT /api/v1/products/:id",
		"DELETE /api/v1/products/:id",
		"POST /api/v1/clients",
		"GET /api/v1/clients",
		"GET /api/v1/clients/:code",
		"GET /api/v1/clients/:code/basic",
		"GET /api/v1/clients/id/:id",
		"PUT /api/v1/clients/id/:id",
		"DELETE /api/v1/clients/id/:id",
		"POST /api/v1/users/sign-up",
		"POST /api/v1/users/sign-in",
		"GET /api/v1/users/me",
		"POST /api/v1/users/sign-out",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestUserRoutes_GuardsOnlyCredentialRoutes(t *testing.T) {
	engine := gin.New()
	guard := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	NewRouter(engine).Register(UserRoutes(handler.NewUserHandler(nil), guard)).Setup()

	for _, path := range []string{"/api/v1/users/sign-up", "/api/v1/users/sign-in"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code, path)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(testConfig(), zap.NewNop())
	engine.GET("/health", handler.NewSystemHandler("product-service", "test", nil).Health)

	t.Run("health carries request id and security headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Contains(t, w.Body.String(), `"status":"UP"`)
	})

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("escaped slashes stay inside one path segment", func(t *testing.T) {
		e := NewEngine(testConfig(), zap.NewNop())
		e.GET("/clients/:code", func(c *gin.Context) { c.String(http.StatusOK, c.Param("code")) })

		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clients/ab%2Fcd==", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ab/cd==", w.Body.String())
	})

	t.Run("extra handlers run after the shared stack", func(t *testing.T) {
		var sawRequestID string
		e := NewEngine(testConfig(), zap.NewNop(), func(c *gin.Context) {
			sawRequestID = middleware.GetRequestID(c)
			c.Next()
		})
		e.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), sawRequestID)
	})
}

func TestAuthentication(t *testing.T) {
	jwtService := testJWTService()
	token, err := jwtService.GenerateToken(3, "ana@example.com")
	require.NoError(t, err)

	newEngine := func(required bool) *gin.Engine {
		engine := gin.New()
		g := NewResource("/products").
			GET("", func(c *gin.Context) { c.String(http.StatusOK, middleware.GetJWTEmail(c)) })
		NewRouter(engine).
			Use(Authentication(required, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())).
			Register(g).
			Setup()
		return engine
	}

	call := func(engine *gin.Engine, bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	t.Run("required rejects anonymous requests", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(newEngine(true), "").Code)
	})

	t.Run("required accepts a valid token", func(t *testing.T) {
		w := call(newEngine(true), token.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ana@example.com", w.Body.String())
	})

	t.Run("optional lets anonymous requests through", func(t *testing.T) {
		w := call(newEngine(false), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("optional still reads a valid token", func(t *testing.T) {
		w := call(newEngine(false), token.AccessToken)
		assert.Equal(t, "ana@example.com", w.Body.String())
	})
}
