package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"
)

func testUser(role models.UserRole) *models.User {
	u := &models.User{Email: "ops@test.com", Role: role}
	u.ID = "0190c6b2-7a1e-7c3a-9e1b-5d2f3a4b6c7d"
	return u
}

func setupAuthRouter(roles ...models.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey), "role": c.GetString(RoleKey)})
	}
	if len(roles) > 0 {
		r.GET("/test", RequireRole(roles...), handler)
	} else {
		r.GET("/test", handler)
	}
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, wantStatus, rec.Body.String())
	}
	body := parseBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected error object in response")
	}
	if code, _ := errObj["code"].(string); code != wantCode {
		t.Errorf("error code = %q, want %q", code, wantCode)
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid_access_token", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser(models.RoleOperations))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		rec := doAuthRequest(setupAuthRouter(), "Bearer "+token)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := parseBody(t, rec)
		if body["role"] != "operations" {
			t.Errorf("expected role in context, got %v", body["role"])
		}
		if body["user_id"] != testUser(models.RoleOperations).ID {
			t.Errorf("expected user id in context, got %v", body["user_id"])
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		assertErrorCode(t, doAuthRequest(setupAuthRouter(), ""), http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("bad_format", func(t *testing.T) {
		assertErrorCode(t, doAuthRequest(setupAuthRouter(), "Token abc"), http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("garbage_token", func(t *testing.T) {
		assertErrorCode(t, doAuthRequest(setupAuthRouter(), "Bearer not-a-jwt"), http.StatusUnauthorized, "INVALID_TOKEN")
	})

	t.Run("refresh_token_rejected", func(t *testing.T) {
		token, _ := GenerateRefreshToken(testUser(models.RoleAdvisor))
		assertErrorCode(t, doAuthRequest(setupAuthRouter(), "Bearer "+token), http.StatusUnauthorized, "INVALID_TOKEN")
	})
}

func TestRequireRole(t *testing.T) {
	router := setupAuthRouter(models.RoleOperations, models.RoleAdmin)

	t.Run("allowed", func(t *testing.T) {
		token, _ := GenerateAccessToken(testUser(models.RoleAdmin))
		if rec := doAuthRequest(router, "Bearer "+token); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("forbidden", func(t *testing.T) {
		token, _ := GenerateAccessToken(testUser(models.RoleAdvisor))
		assertErrorCode(t, doAuthRequest(router, "Bearer "+token), http.StatusForbidden, "FORBIDDEN")
	})
}

func TestValidateRefreshToken(t *testing.T) {
	user := testUser(models.RoleAdvisor)

	refresh, _ := GenerateRefreshToken(user)
	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleAdvisor {
		t.Errorf("unexpected claims: %+v", claims)
	}

	access, _ := GenerateAccessToken(user)
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("expected access token to be rejected as refresh token")
	}

	if HashToken(refresh) == HashToken(access) || len(HashToken(refresh)) != 64 {
		t.Error("expected distinct 64-char hex digests")
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.ErrAdvisorNotFound) })
	r.GET("/raw", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", http.NoBody))
	assertErrorCode(t, rec, http.StatusNotFound, "ADVISOR_NOT_FOUND")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/raw", http.NoBody))
	assertErrorCode(t, rec, http.StatusInternalServerError, "INTERNAL_ERROR")
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	t.Run("generates_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
		id := rec.Header().Get("X-Request-ID")
		if id == "" || id != rec.Body.String() {
			t.Errorf("expected request id header to match context, got %q / %q", id, rec.Body.String())
		}
	})

	t.Run("reuses_incoming_id", func(t *testing.T) {
		incoming := "0190c6b2-7a1e-7c3a-9e1b-5d2f3a4b6c7d"
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", incoming)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got != incoming {
			t.Errorf("expected %q, got %q", incoming, got)
		}
	})
}
