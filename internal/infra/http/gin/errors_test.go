package ginserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stayhub/internal/app/authz"
	"stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
)

func TestRespondDomainErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", domainlistings.ErrNotFound, http.StatusNotFound},
		{"booking not found", domainbooking.ErrNotFound, http.StatusNotFound},
		{"date conflict", domainbooking.ErrDateConflict, http.StatusConflict},
		{"dates unavailable", domainbooking.ErrDatesUnavailable, http.StatusConflict},
		{"invalid state", domainbooking.ErrInvalidState, http.StatusConflict},
		{"overlapping range", availability.ErrOverlappingRange, http.StatusConflict},
		{"duplicate range", availability.ErrDuplicateRange, http.StatusConflict},
		{"range not open", availability.ErrRangeNotOpen, http.StatusConflict},
		{"capacity", domainbooking.ErrCapacityExceeded, http.StatusUnprocessableEntity},
		{"invalid range", daterange.ErrInvalidRange, http.StatusBadRequest},
		{"check-in past", domainbooking.ErrCheckInPast, http.StatusBadRequest},
		{"invalid price", domainlistings.ErrInvalidPrice, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			respondDomainError(c, nil, tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestUnauthorizedDependsOnPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondDomainError(c, nil, authz.ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(principalContextKey, authz.Principal{ID: "guest-1"})
	respondDomainError(c, nil, authz.ErrUnauthorized)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc123", extractBearerToken("Bearer abc123"))
	assert.Equal(t, "abc123", extractBearerToken("bearer abc123"))
	assert.Equal(t, "", extractBearerToken(""))
	assert.Equal(t, "", extractBearerToken("Basic abc123"))
	assert.Equal(t, "", extractBearerToken("abc123"))
}
