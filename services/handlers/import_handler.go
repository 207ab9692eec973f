package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shawnadoherty9/travelogie-sub001/dto"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
)

type ImportHandler struct {
	importSvc ImportServiceInterface
}

func NewImportHandler(importSvc ImportServiceInterface) *ImportHandler {
	return &ImportHandler{
		importSvc: importSvc,
	}
}

// @Summary Import POI CSV (Admin)
// @Description Import a points of interest CSV dataset. Rows that cannot be transformed are skipped and reported.
// @Tags admin
// @Accept plain
// @Produce json
// @Security Bearer
// @Param country query string true "Country name assigned to newly created cities"
// @Param dataset body string true "CSV dataset with header row"
// @Success 200 {object} shared.Response{data=dto.ImportSummary}
// @Failure 400 {object} shared.Response
// @Failure 429 {object} shared.Response
// @Router /api/v1/admin/import/csv [post]
func (h *ImportHandler) ImportCSV(c *fiber.Ctx) error {
	country := strings.TrimSpace(c.Query("country"))
	if country == "" {
		return shared.ResponseBadRequest(c, "country is required")
	}

	summary, err := h.importSvc.ImportCSV(c.UserContext(), string(c.Body()), country)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Import completed", summary)
}

// @Summary Import POI rows (Admin)
// @Description Import already structured points of interest rows
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.ImportRowsRequest true "Rows to import"
// @Success 200 {object} shared.Response{data=dto.ImportSummary}
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/v1/admin/import/rows [post]
func (h *ImportHandler) ImportRows(c *fiber.Ctx) error {
	var req dto.ImportRowsRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	summary, err := h.importSvc.ImportRows(c.UserContext(), req.Rows, req.Country)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Import completed", summary)
}

// @Summary Import POI dataset from storage (Admin)
// @Description Import a CSV dataset previously uploaded to object storage
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.ImportObjectRequest true "Stored dataset"
// @Success 200 {object} shared.Response{data=dto.ImportSummary}
// @Failure 503 {object} shared.Response
// @Router /api/v1/admin/import/object [post]
func (h *ImportHandler) ImportObject(c *fiber.Ctx) error {
	var req dto.ImportObjectRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	summary, err := h.importSvc.ImportObject(c.UserContext(), req.ObjectKey, req.Country)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Import completed", summary)
}
