package controller

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/controller"
	"github.com/RahulGiri5677/nookly-sub000/core/errors"
	"github.com/RahulGiri5677/nookly-sub000/core/utils"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/dto"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/entity"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/service"
)

// AttendanceController handles attendance HTTP requests
type AttendanceController struct {
	controller.BaseController
	TokenService  *service.TokenService
	VerifyService *service.VerifyService
}

func NewAttendanceController(tokenSvc *service.TokenService, verifySvc *service.VerifyService) *AttendanceController {
	return &AttendanceController{
		BaseController: controller.NewBaseController(),
		TokenService:   tokenSvc,
		VerifyService:  verifySvc,
	}
}

func (c *AttendanceController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// IssueToken handles POST /attendance/token
// @Summary Issue a signed check-in token for the host's QR screen
// @Tags Attendance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.IssueTokenRequest true "Nook and optional phase"
// @Success 200 {object} dto.IssueTokenResponse
// @Router /private/attendance/token [post]
func (c *AttendanceController) IssueToken(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.IssueTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	nookID, err := uuid.Parse(req.NookID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}

	token, appErr := c.TokenService.IssueToken(ctx.Request().Context(), nookID, hostID, entity.ScanPhase(req.Phase))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.IssueTokenResponse{Token: token}, "Token issued")
}

// Verify handles POST /attendance/verify
// @Summary Verify a scanned token and record attendance
// @Tags Attendance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.VerifyRequest true "Scanned token"
// @Success 200 {object} dto.VerifyResponse
// @Router /private/attendance/verify [post]
func (c *AttendanceController) Verify(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.VerifyRequest
	if err := ctx.Bind(&req); err != nil {
		// Scanner clients key off the response body, so even a bind
		// failure answers in the verify shape.
		return ctx.JSON(http.StatusBadRequest, dto.VerifyResponse{
			Success: false,
			Message: "That code couldn't be read, ask the host to refresh it",
			Error:   string(errors.ErrTokenMalformed),
		})
	}

	result, appErr := c.VerifyService.Verify(ctx.Request().Context(), userID, req.Token)
	if appErr != nil {
		return ctx.JSON(controller.HTTPStatusForCode(appErr.Code), dto.VerifyResponse{
			Success: false,
			Message: appErr.Message,
			Error:   string(appErr.Code),
		})
	}

	return ctx.JSON(http.StatusOK, dto.VerifyResponse{
		Success: true,
		Phase:   string(result.Phase),
		Message: result.Message,
	})
}

// GetMyAttendance handles GET /attendance/nooks/:id/me
// @Summary Get the caller's attendance record for a nook
// @Tags Attendance
// @Security BearerAuth
// @Produce json
// @Param id path string true "Nook ID"
// @Success 200 {object} dto.AttendanceResponse
// @Router /private/attendance/nooks/{id}/me [get]
func (c *AttendanceController) GetMyAttendance(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}

	record, appErr := c.VerifyService.GetMyAttendance(ctx.Request().Context(), nookID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	if record == nil {
		return c.NotFound(errors.ErrNotFound, "No attendance record for this nook")
	}

	return c.SuccessResponse(ctx, dto.ToAttendanceResponse(record), "Attendance retrieved successfully")
}
