package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"clarifyall/internal/service"
)

// UserHandler handles profile and saved-tool endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest carries the editable profile fields. Absent fields
// are left untouched.
type UpdateProfileRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=100"`
	Bio  *string `json:"bio" validate:"omitempty,max=500"`
}

// DeleteAccountRequest confirms account deletion.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), claims.UserID, service.ProfileUpdate{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UploadAvatar godoc
// @Summary Replace the current user's avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image (jpeg/png/gif)"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/avatar [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	upload, err := readUpload(c, "avatar")
	if err != nil {
		return err
	}

	user, err := h.userService.UpdateAvatar(c.Request().Context(), claims.UserID, upload)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SavedTools godoc
// @Summary List the current user's saved tools
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(12)
// @Success 200 {object} service.SavedToolsPage
// @Router /users/saved-tools [get]
func (h *UserHandler) SavedTools(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	page, size := pageParams(c)
	result, err := h.userService.SavedTools(c.Request().Context(), claims.UserID, page, size)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// SaveTool godoc
// @Summary Bookmark a tool
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param toolId path int true "Tool ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/saved-tools/{toolId} [post]
func (h *UserHandler) SaveTool(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	toolID, err := parseID(c, "toolId")
	if err != nil {
		return err
	}

	created, err := h.userService.SaveTool(c.Request().Context(), claims.UserID, toolID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": true, "created": created})
}

// UnsaveTool godoc
// @Summary Remove a bookmarked tool
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param toolId path int true "Tool ID"
// @Success 200 {object} map[string]bool
// @Router /users/saved-tools/{toolId} [delete]
func (h *UserHandler) UnsaveTool(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	toolID, err := parseID(c, "toolId")
	if err != nil {
		return err
	}

	removed, err := h.userService.UnsaveTool(c.Request().Context(), claims.UserID, toolID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": false, "removed": removed})
}

// CheckSaved godoc
// @Summary Check whether the current user saved a tool
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param toolId path int true "Tool ID"
// @Success 200 {object} map[string]bool
// @Router /users/saved-tools/{toolId}/check [get]
func (h *UserHandler) CheckSaved(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	toolID, err := parseID(c, "toolId")
	if err != nil {
		return err
	}

	saved, err := h.userService.HasSavedTool(c.Request().Context(), claims.UserID, toolID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": saved})
}

// SubmittedTools godoc
// @Summary List tools submitted by the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(12)
// @Success 200 {object} service.ToolPage
// @Router /users/tools [get]
func (h *UserHandler) SubmittedTools(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	page, size := pageParams(c)
	result, err := h.userService.SubmittedTools(c.Request().Context(), claims.UserID, page, size)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteAccount godoc
// @Summary Delete the current user's account
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteAccountRequest true "Password confirmation (local accounts)"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), claims.UserID, req.Password); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}

func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, _ = strconv.Atoi(c.QueryParam("size"))
	return page, size
}
