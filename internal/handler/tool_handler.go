package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"clarifyall/internal/errors"
	"clarifyall/internal/model"
	"clarifyall/internal/repository"
	"clarifyall/internal/service"
)

// ToolHandler handles tool listing, submission, and moderation endpoints.
type ToolHandler struct {
	toolService service.ToolService
}

// NewToolHandler creates a new tool handler.
func NewToolHandler(toolService service.ToolService) *ToolHandler {
	return &ToolHandler{toolService: toolService}
}

// ListTools godoc
// @Summary List approved tools with filters
// @Tags tools
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(12)
// @Param pricingModel query string false "FREE | FREEMIUM | FREE_TRIAL | PAID"
// @Param categoryId query int false "Category id"
// @Param searchTerm query string false "Substring match on name or short description"
// @Param platforms query []string false "Platform tags (OR semantics)"
// @Param featureTags query []string false "Feature tags (OR semantics)"
// @Param sortBy query string false "RECENT | POPULAR | RATING | NAME_ASC | NAME_DESC"
// @Success 200 {object} service.ToolPage
// @Failure 500 {object} errors.ErrorResponse
// @Router /tools [get]
func (h *ToolHandler) ListTools(c echo.Context) error {
	criteria := criteriaFromQuery(c)
	criteria.Status = repository.StatusExact(model.StatusApproved)

	page, err := h.toolService.List(c.Request().Context(), criteria)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListAllTools godoc
// @Summary List tools in every moderation state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING_APPROVAL | APPROVED | REJECTED (all when omitted)"
// @Success 200 {object} service.ToolPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/tools [get]
func (h *ToolHandler) ListAllTools(c echo.Context) error {
	criteria := criteriaFromQuery(c)

	// The all-statuses view is an explicit choice, never a default.
	if raw := c.QueryParam("status"); raw != "" {
		status := model.ToolStatus(raw)
		if !model.ValidToolStatus(status) {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid status",
				Code:  "INVALID_STATUS",
			})
		}
		criteria.Status = repository.StatusExact(status)
	} else {
		criteria.Status = repository.StatusAny()
	}

	page, err := h.toolService.List(c.Request().Context(), criteria)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetTool godoc
// @Summary Get tool by id
// @Tags tools
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {object} model.Tool
// @Failure 404 {object} errors.ErrorResponse
// @Router /tools/{id} [get]
func (h *ToolHandler) GetTool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tool, err := h.toolService.GetTool(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, tool)
}

// SubmitTool godoc
// @Summary Submit a tool for moderation
// @Tags tools
// @Accept multipart/form-data
// @Produce json
// @Param tool formData string true "Tool draft as JSON"
// @Param logo formData file true "Logo image (jpeg/png/gif)"
// @Success 201 {object} model.Tool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tools/submit [post]
func (h *ToolHandler) SubmitTool(c echo.Context) error {
	var draft service.ToolDraft
	raw := c.FormValue("tool")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "tool data is required",
			Code:  "MISSING_TOOL_DATA",
		})
	}
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "tool data must be valid JSON",
			Code:  "INVALID_TOOL_DATA",
		})
	}

	logo, err := readUpload(c, "logo")
	if err != nil {
		return err
	}

	tool, err := h.toolService.Submit(c.Request().Context(), draft, logo)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, tool)
}

// RecordView godoc
// @Summary Increment a tool's view count
// @Tags tools
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /tools/{id}/view [post]
func (h *ToolHandler) RecordView(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	count, err := h.toolService.RecordView(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"viewCount": count})
}

// SimilarTools godoc
// @Summary List approved tools sharing a category
// @Tags tools
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {array} model.Tool
// @Failure 404 {object} errors.ErrorResponse
// @Router /tools/{id}/similar [get]
func (h *ToolHandler) SimilarTools(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tools, err := h.toolService.Similar(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, tools)
}

// PopularTools godoc
// @Summary List most viewed approved tools
// @Tags tools
// @Produce json
// @Success 200 {array} model.Tool
// @Router /tools/popular [get]
func (h *ToolHandler) PopularTools(c echo.Context) error {
	tools, err := h.toolService.Popular(c.Request().Context(), 10)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, tools)
}

// RecentTools godoc
// @Summary List newest approved tools
// @Tags tools
// @Produce json
// @Success 200 {array} model.Tool
// @Router /tools/recent [get]
func (h *ToolHandler) RecentTools(c echo.Context) error {
	tools, err := h.toolService.Recent(c.Request().Context(), 10)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, tools)
}

// ApproveTool godoc
// @Summary Approve a pending tool
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tool ID"
// @Success 200 {object} model.Tool
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/tools/{id}/approve [put]
func (h *ToolHandler) ApproveTool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tool, err := h.toolService.Approve(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, tool)
}

// RejectTool godoc
// @Summary Reject a pending tool
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tool ID"
// @Success 200 {object} model.Tool
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/tools/{id}/reject [put]
func (h *ToolHandler) RejectTool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tool, err := h.toolService.Reject(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, tool)
}

// UpdateTool godoc
// @Summary Update a tool's descriptive fields and category set
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tool ID"
// @Param request body service.ToolDraft true "Updated fields"
// @Success 200 {object} model.Tool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/tools/{id} [put]
func (h *ToolHandler) UpdateTool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var draft service.ToolDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	tool, err := h.toolService.Update(c.Request().Context(), id, draft)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, tool)
}

// DeleteTool godoc
// @Summary Delete a tool
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tool ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/tools/{id} [delete]
func (h *ToolHandler) DeleteTool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.toolService.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tool deleted"})
}

// ReplaceLogo godoc
// @Summary Replace a tool's logo
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tool ID"
// @Param logo formData file true "Logo image (jpeg/png/gif)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/tools/{id}/logo [post]
func (h *ToolHandler) ReplaceLogo(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	logo, err := readUpload(c, "logo")
	if err != nil {
		return err
	}

	logoURL, err := h.toolService.ReplaceLogo(c.Request().Context(), id, logo)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"logoUrl": logoURL})
}

// criteriaFromQuery binds the shared filter/sort/paginate query params.
// Status is left for the caller: the public route forces APPROVED, the
// admin route chooses explicitly.
func criteriaFromQuery(c echo.Context) repository.ListCriteria {
	criteria := repository.DefaultListCriteria()

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		criteria.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil {
		criteria.Size = v
	}
	criteria.PricingModel = model.PricingModel(c.QueryParam("pricingModel"))
	if v, err := strconv.ParseUint(c.QueryParam("categoryId"), 10, 64); err == nil {
		criteria.CategoryID = uint(v)
	}
	criteria.SearchTerm = c.QueryParam("searchTerm")
	criteria.Platforms = c.QueryParams()["platforms"]
	criteria.FeatureTags = c.QueryParams()["featureTags"]
	criteria.SortBy = repository.ParseSortBy(c.QueryParam("sortBy"))

	return criteria
}

// readUpload reads a multipart file field fully into memory.
func readUpload(c echo.Context, field string) (*service.LogoUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "could not read uploaded file",
			Code:  "INVALID_UPLOAD",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "could not read uploaded file",
			Code:  "INVALID_UPLOAD",
		})
	}

	return &service.LogoUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	}, nil
}

func parseID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// mapError converts a domain error into an echo HTTP error.
func mapError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
