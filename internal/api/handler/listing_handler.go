package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusmarket/campus-market/internal/api/metrics"
	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
	"github.com/campusmarket/campus-market/internal/core/query"
)

// ListingHandler handles listing CRUD and browsing.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Create handles POST /listings.
//
// @Summary      Create a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing draft"
// @Success      201   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	listing, err := h.service.Create(c.Request().Context(), userID, req.toDraft())
	if err != nil {
		return err
	}

	metrics.ListingsCreatedTotal.WithLabelValues(string(listing.Type)).Inc()
	return c.JSON(http.StatusCreated, listingResponse{Listing: listing})
}

// List handles GET /listings: the public browse view. Besides type and
// category narrowing it accepts the full query-engine parameter set, so the
// server-side view matches what a client computes locally from a snapshot.
//
// @Summary      Browse listings
// @Tags         listings
// @Produce      json
// @Param        type           query  string  false  "housing or marketplace"
// @Param        category       query  string  false  "marketplace category"
// @Param        search         query  string  false  "substring match on title/description/location"
// @Param        priceMin       query  number  false  "minimum price"
// @Param        priceMax       query  number  false  "maximum price"
// @Param        moveIn         query  string  false  "earliest move-in date (RFC 3339)"
// @Param        moveOut        query  string  false  "latest move-out date (RFC 3339)"
// @Param        distance       query  string  false  "walking, <1, 1-3 or 3+"
// @Param        gender         query  string  false  "any, male or female"
// @Param        housingTypes   query  string  false  "comma-separated housing types"
// @Param        bedrooms       query  string  false  "studio, 1, 2, 3 or 3+"
// @Param        sort           query  string  false  "newest, price-low, price-high or move-in"
// @Param        includeSold    query  bool    false  "include sold listings"
// @Success      200  {object}  listingsResponse
// @Failure      400  {object}  errorResponse
// @Router       /listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	in, err := parseBrowseInput(c)
	if err != nil {
		return err
	}

	listings, err := h.service.Browse(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingsResponse{Listings: listings})
}

// Get handles GET /listings/:id. Tombstoned listings are still returned;
// only the collection views hide them.
//
// @Summary      Get one listing
// @Tags         listings
// @Produce      json
// @Param        id   path      string  true  "Listing id (with or without the listing: prefix)"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  errorResponse
// @Router       /listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingResponse{Listing: listing})
}

// Update handles PUT /listings/:id (owner only).
//
// @Summary      Update a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Listing id"
// @Param        body  body      updateListingRequest  true  "Partial update"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /listings/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	listing, err := h.service.Update(c.Request().Context(), c.Param("id"), userID, req.toPatch())
	if err != nil {
		return err
	}

	if req.Status != nil {
		metrics.ListingStatusTransitionsTotal.WithLabelValues(*req.Status).Inc()
	}
	return c.JSON(http.StatusOK, listingResponse{Listing: listing})
}

// Delete handles DELETE /listings/:id (owner only, soft delete).
//
// @Summary      Soft-delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  okResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	metrics.ListingStatusTransitionsTotal.WithLabelValues(string(domain.StatusDeleted)).Inc()
	return c.JSON(http.StatusOK, okResponse{Success: true})
}

// Mine handles GET /my-listings.
//
// @Summary      Get the caller's listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        includeSold  query  bool  false  "include sold listings"
// @Success      200  {object}  listingsResponse
// @Failure      401  {object}  errorResponse
// @Router       /my-listings [get]
func (h *ListingHandler) Mine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	includeSold, err := parseBoolParam(c, "includeSold")
	if err != nil {
		return err
	}
	listings, err := h.service.Mine(c.Request().Context(), userID, includeSold)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingsResponse{Listings: listings})
}

// parseBrowseInput converts browse query parameters into a BrowseInput.
// Malformed values are rejected with 400 rather than silently ignored.
func parseBrowseInput(c echo.Context) (ports.BrowseInput, error) {
	var in ports.BrowseInput

	switch typ := c.QueryParam("type"); typ {
	case "", string(domain.TypeHousing), string(domain.TypeMarketplace):
		in.Type = domain.ListingType(typ)
	default:
		return in, echo.NewHTTPError(http.StatusBadRequest, "type must be housing or marketplace")
	}
	in.Category = c.QueryParam("category")

	qp := query.Params{
		Search: c.QueryParam("search"),
		Sort:   query.SortKey(c.QueryParam("sort")),
	}
	switch qp.Sort {
	case "", query.SortNewest, query.SortPriceLow, query.SortPriceHigh, query.SortMoveIn:
	default:
		return in, echo.NewHTTPError(http.StatusBadRequest, "unknown sort key")
	}
	var err error
	if qp.IncludeSold, err = parseBoolParam(c, "includeSold"); err != nil {
		return in, err
	}
	if qp.Filters.PriceMin, err = parseFloatParam(c, "priceMin"); err != nil {
		return in, err
	}
	if qp.Filters.PriceMax, err = parseFloatParam(c, "priceMax"); err != nil {
		return in, err
	}
	if qp.Filters.MoveInDate, err = parseTimeParam(c, "moveIn"); err != nil {
		return in, err
	}
	if qp.Filters.MoveOutDate, err = parseTimeParam(c, "moveOut"); err != nil {
		return in, err
	}

	switch d := query.DistanceBucket(c.QueryParam("distance")); d {
	case "", query.DistanceWalking, query.DistanceUnderOne, query.DistanceOneThree, query.DistanceThreeUp:
		qp.Filters.Distance = d
	default:
		return in, echo.NewHTTPError(http.StatusBadRequest, "unknown distance bucket")
	}

	qp.Filters.Gender = c.QueryParam("gender")
	if raw := c.QueryParam("housingTypes"); raw != "" {
		qp.Filters.HousingTypes = strings.Split(raw, ",")
	}
	qp.Filters.Bedrooms = c.QueryParam("bedrooms")

	in.Query = qp
	return in, nil
}

func parseBoolParam(c echo.Context, name string) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, name+" must be a boolean")
	}
	return v, nil
}

func parseFloatParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return &v, nil
}

func parseTimeParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	// Accept both a bare date and a full RFC 3339 timestamp.
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a date or RFC 3339 timestamp")
	}
	return &t, nil
}
