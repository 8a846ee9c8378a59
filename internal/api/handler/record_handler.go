package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/workflowlive/request-tracker/internal/api/metrics"
	"github.com/workflowlive/request-tracker/internal/core/ports"
)

// RecordHandler handles HTTP requests for record operations.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// Create handles POST /records, the synchronous submission transport.
//
// @Summary      Submit a new record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRecordRequest  true  "Record details"
// @Success      201   {object}  recordResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /records [post]
func (h *RecordHandler) Create(c echo.Context) error {
	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("http").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := toCreateInput(req)
	if err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("http").Inc()
		return err
	}

	stored, err := h.service.CreateRecord(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.RecordsCreatedTotal.WithLabelValues(string(stored.Type)).Inc()
	return c.JSON(http.StatusCreated, toRecordResponse(stored, time.Now().UTC()))
}

// List handles GET /records, the role-scoped, deadline-sorted read path.
//
// @Summary      List records visible to the caller
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listRecordsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /records [get]
func (h *RecordHandler) List(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	records, err := h.service.ListRecords(c.Request().Context(), ports.ListRecordsInput{
		Role:   role,
		UserID: userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(records, time.Now().UTC()))
}
