package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shawnadoherty9/travelogie-sub001/dto"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
)

type RateLimitHandler struct {
	rateLimitSvc RateLimitServiceInterface
}

func NewRateLimitHandler(rateLimitSvc RateLimitServiceInterface) *RateLimitHandler {
	return &RateLimitHandler{
		rateLimitSvc: rateLimitSvc,
	}
}

// @Summary Check rate limit
// @Description Count one request of the caller against an endpoint policy. Edge functions call this before doing work.
// @Tags rate-limit
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token; the subject becomes the identifier"
// @Param request body dto.CheckRateLimitRequest true "Endpoint to check"
// @Success 200 {object} shared.Response{data=dto.RateLimitInfo}
// @Failure 429 {object} shared.Response{data=dto.RateLimitInfo}
// @Router /api/v1/rate-limit/check [post]
func (h *RateLimitHandler) Check(c *fiber.Ctx) error {
	var req dto.CheckRateLimitRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	info := h.rateLimitSvc.IsAllowed(c.UserContext(), shared.ResolveIdentifier(c), req.Endpoint)
	shared.SetRateLimitHeaders(c, info)

	if !info.Allowed {
		return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Rate limit exceeded", info)
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Allowed", info)
}

// @Summary List rate limit policies (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.RateLimitConfigResponse}
// @Router /api/v1/admin/rate-limits [get]
func (h *RateLimitHandler) ListConfigs(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, fiber.StatusOK, "Rate limit policies", h.rateLimitSvc.ListConfigs())
}

// @Summary Rate limit statistics (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.RateLimitStats}
// @Router /api/v1/admin/rate-limits/stats [get]
func (h *RateLimitHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.rateLimitSvc.Stats(c.UserContext())
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Rate limit statistics", stats)
}

// @Summary Update rate limit policy (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param endpoint path string true "Endpoint key"
// @Param request body dto.UpdateRateLimitConfigRequest true "Policy changes"
// @Success 200 {object} shared.Response{data=dto.RateLimitConfigResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/admin/rate-limits/{endpoint} [put]
func (h *RateLimitHandler) UpdateConfig(c *fiber.Ctx) error {
	endpoint := c.Params("endpoint")

	var req dto.UpdateRateLimitConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	config, err := h.rateLimitSvc.UpdateConfig(c.UserContext(), endpoint, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Configuration updated successfully", config)
}

// @Summary Reset a rate limit counter (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param identifier path string true "Caller identifier"
// @Param endpoint path string true "Endpoint key"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/rate-limits/{identifier}/{endpoint} [delete]
func (h *RateLimitHandler) Reset(c *fiber.Ctx) error {
	identifier := c.Params("identifier")
	endpoint := c.Params("endpoint")

	if err := h.rateLimitSvc.Reset(c.UserContext(), identifier, endpoint); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, fmt.Sprintf("Rate limit removed for %s/%s", identifier, endpoint), nil)
}
