package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "stayhub/internal/app/bookings"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Accept(c *gin.Context)
	Reject(c *gin.Context)
	ForListing(c *gin.Context)
	Mine(c *gin.Context)
	AdminAll(c *gin.Context)
	AdminByUser(c *gin.Context)
}

type BookingHandler struct {
	Service *bookingapp.Service
	Logger  *slog.Logger
}

type bookingRequest struct {
	ListingID string `json:"listing_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    int    `json:"guests"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	start, end, err := parseRangeBounds(rangePayload{Start: req.CheckIn, End: req.CheckOut})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	b, err := h.Service.Create(c.Request.Context(), principalOrAnonymous(c), bookingapp.CreateParams{
		ListingID: req.ListingID,
		CheckIn:   start,
		CheckOut:  end,
		Guests:    req.Guests,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Header("Location", "/api/v1/bookings/"+string(b.ID))
	c.JSON(http.StatusCreated, newBookingResponse(b))
}

func (h BookingHandler) Get(c *gin.Context) {
	b, err := h.Service.ByID(c.Request.Context(), principalOrAnonymous(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

func (h BookingHandler) Update(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	start, end, err := parseRangeBounds(rangePayload{Start: req.CheckIn, End: req.CheckOut})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	b, err := h.Service.Update(c.Request.Context(), principalOrAnonymous(c), c.Param("id"), bookingapp.UpdateParams{
		CheckIn:  start,
		CheckOut: end,
		Guests:   req.Guests,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

func (h BookingHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), principalOrAnonymous(c), c.Param("id")); err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BookingHandler) Accept(c *gin.Context) {
	h.decide(c, true)
}

func (h BookingHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h BookingHandler) decide(c *gin.Context, accept bool) {
	b, err := h.Service.Decide(c.Request.Context(), principalOrAnonymous(c), c.Param("id"), accept)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

func (h BookingHandler) ForListing(c *gin.Context) {
	items, err := h.Service.ListByListing(c.Request.Context(), principalOrAnonymous(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newBookingList(items))
}

func (h BookingHandler) Mine(c *gin.Context) {
	items, err := h.Service.ListMine(c.Request.Context(), principalOrAnonymous(c))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newBookingList(items))
}

func (h BookingHandler) AdminAll(c *gin.Context) {
	items, err := h.Service.ListAll(c.Request.Context(), principalOrAnonymous(c))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newBookingList(items))
}

func (h BookingHandler) AdminByUser(c *gin.Context) {
	items, err := h.Service.ListByUser(c.Request.Context(), principalOrAnonymous(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newBookingList(items))
}

var _ BookingHTTP = (*BookingHandler)(nil)
