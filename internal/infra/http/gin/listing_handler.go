package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	listingapp "stayhub/internal/app/listings"
	domainlistings "stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

const maxPhotoSizeBytes int64 = 10 * 1024 * 1024

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Mine(c *gin.Context)
	OpenDates(c *gin.Context)
	UploadPhoto(c *gin.Context)
	Reviews(c *gin.Context)
	SubmitReview(c *gin.Context)
}

type ListingHandler struct {
	Service *listingapp.Service
	Logger  *slog.Logger
}

type listingRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	PricePerNight string         `json:"price_per_night"`
	Capacity      int            `json:"capacity"`
	Utilities     []string       `json:"utilities"`
	Location      string         `json:"location"`
	ImageURLs     []string       `json:"image_urls"`
	AvailableFor  []rangePayload `json:"available_for"`
}

// Catalog serves the public listing index. Query parameters select one of
// the finders; without any the full catalog is returned.
func (h ListingHandler) Catalog(c *gin.Context) {
	ctx := c.Request.Context()
	switch {
	case c.Query("location") != "":
		h.respondCatalog(c)(h.Service.ByLocation(ctx, c.Query("location")))
	case c.Query("price_min") != "" || c.Query("price_max") != "":
		min, err := parseMoneyParam(c.Query("price_min"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_min"})
			return
		}
		max, err := parseMoneyParam(c.Query("price_max"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_max"})
			return
		}
		h.respondCatalog(c)(h.Service.ByPriceBetween(ctx, min, max))
	case c.Query("capacity_min") != "" || c.Query("capacity_max") != "":
		min := parseIntParam(c.Query("capacity_min"))
		max := parseIntParam(c.Query("capacity_max"))
		h.respondCatalog(c)(h.Service.ByCapacityBetween(ctx, min, max))
	case c.Query("utility") != "":
		h.respondCatalog(c)(h.Service.ByUtility(ctx, c.Query("utility")))
	case c.Query("host") != "":
		h.respondCatalog(c)(h.Service.ByHost(ctx, c.Query("host")))
	default:
		h.respondCatalog(c)(h.Service.All(ctx))
	}
}

func (h ListingHandler) Get(c *gin.Context) {
	listing, err := h.Service.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(listing))
}

func (h ListingHandler) Create(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	price, err := money.Parse(req.PricePerNight)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_per_night"})
		return
	}
	ranges, err := parseRanges(req.AvailableFor)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	listing, err := h.Service.Create(c.Request.Context(), principalOrAnonymous(c), listingapp.CreateParams{
		Title:         req.Title,
		Description:   req.Description,
		PricePerNight: price,
		Capacity:      req.Capacity,
		Utilities:     req.Utilities,
		Location:      req.Location,
		ImageURLs:     req.ImageURLs,
		AvailableFor:  ranges,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Header("Location", "/api/v1/listings/"+string(listing.ID))
	c.JSON(http.StatusCreated, newListingResponse(listing))
}

func (h ListingHandler) Update(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	price, err := money.Parse(req.PricePerNight)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_per_night"})
		return
	}
	listing, err := h.Service.Update(c.Request.Context(), principalOrAnonymous(c), c.Param("id"), listingapp.UpdateParams{
		Title:         req.Title,
		Description:   req.Description,
		PricePerNight: price,
		Capacity:      req.Capacity,
		Utilities:     req.Utilities,
		Location:      req.Location,
		ImageURLs:     req.ImageURLs,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(listing))
}

func (h ListingHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), principalOrAnonymous(c), c.Param("id")); err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ListingHandler) Mine(c *gin.Context) {
	items, err := h.Service.Mine(c.Request.Context(), principalOrAnonymous(c))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newListingCatalog(items))
}

func (h ListingHandler) OpenDates(c *gin.Context) {
	var req rangePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	start, end, err := parseRangeBounds(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	listing, err := h.Service.OpenDates(c.Request.Context(), principalOrAnonymous(c), c.Param("id"), start, end)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(listing))
}

func (h ListingHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if file.Size > maxPhotoSizeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo exceeds size limit"})
		return
	}
	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
		return
	}
	defer reader.Close()

	listing, err := h.Service.AttachPhoto(c.Request.Context(), principalOrAnonymous(c), c.Param("id"), reader, file.Header.Get("Content-Type"))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(listing))
}

func (h ListingHandler) Reviews(c *gin.Context) {
	items, err := h.Service.ReviewsFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newReviewList(items))
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h ListingHandler) SubmitReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	review, err := h.Service.SubmitReview(c.Request.Context(), principalOrAnonymous(c), c.Param("id"), req.Rating, req.Text)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, newReviewResponse(review))
}

func (h ListingHandler) respondCatalog(c *gin.Context) func([]*domainlistings.Listing, error) {
	return func(items []*domainlistings.Listing, err error) {
		if err != nil {
			respondDomainError(c, h.Logger, err)
			return
		}
		c.JSON(http.StatusOK, newListingCatalog(items))
	}
}

func parseRanges(payloads []rangePayload) ([]daterange.DateRange, error) {
	out := make([]daterange.DateRange, 0, len(payloads))
	for _, p := range payloads {
		start, end, err := parseRangeBounds(p)
		if err != nil {
			return nil, daterange.ErrInvalidRange
		}
		dr, err := daterange.New(start, end)
		if err != nil {
			return nil, err
		}
		out = append(out, dr)
	}
	return out, nil
}

func parseRangeBounds(p rangePayload) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, p.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(dateLayout, p.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseMoneyParam(raw string) (money.Money, error) {
	if raw == "" {
		return money.Money{}, nil
	}
	return money.Parse(raw)
}

func parseIntParam(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

var _ ListingHTTP = (*ListingHandler)(nil)
