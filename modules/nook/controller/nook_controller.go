package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/controller"
	"github.com/RahulGiri5677/nookly-sub000/core/errors"
	"github.com/RahulGiri5677/nookly-sub000/core/utils"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/dto"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/service"
)

// NookController handles nook HTTP requests
type NookController struct {
	controller.BaseController
	NookService       service.NookServiceInterface
	CommitmentService *service.CommitmentService
	ReadinessService  *service.ReadinessService
}

func NewNookController(
	nookSvc service.NookServiceInterface,
	commitmentSvc *service.CommitmentService,
	readinessSvc *service.ReadinessService,
) *NookController {
	return &NookController{
		BaseController:    controller.NewBaseController(),
		NookService:       nookSvc,
		CommitmentService: commitmentSvc,
		ReadinessService:  readinessSvc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *NookController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateNook handles POST /nooks
// @Summary Create a nook
// @Tags Nook
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateNookRequest true "Nook details"
// @Success 200 {object} dto.NookResponse
// @Router /private/nooks [post]
func (c *NookController) CreateNook(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateNookRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.NookService.CreateNook(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Nook created successfully")
}

// GetNook handles GET /nooks/:id
// @Summary Get a nook with its computed phase
// @Tags Nook
// @Security BearerAuth
// @Produce json
// @Param id path string true "Nook ID"
// @Success 200 {object} dto.NookResponse
// @Router /private/nooks/{id} [get]
func (c *NookController) GetNook(ctx echo.Context) error {
	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}

	result, appErr := c.NookService.GetNookByID(ctx.Request().Context(), nookID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetMyNooks handles GET /nooks
// @Summary List the caller's nooks (hosting and joined)
// @Tags Nook
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MyNooksResponse
// @Router /private/nooks [get]
func (c *NookController) GetMyNooks(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.NookService.GetMyNooks(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateNook handles PUT /nooks/:id
// @Summary Update nook details (host only)
// @Tags Nook
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Nook ID"
// @Param request body dto.UpdateNookRequest true "Fields to update"
// @Success 200 {object} dto.NookResponse
// @Router /private/nooks/{id} [put]
func (c *NookController) UpdateNook(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}

	var req dto.UpdateNookRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.NookService.UpdateNook(ctx.Request().Context(), nookID, hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Nook updated successfully")
}

// CancelNook handles POST /nooks/:id/cancel
// @Summary Cancel a nook (host only)
// @Tags Nook
// @Security BearerAuth
// @Param id path string true "Nook ID"
// @Success 200 {object} map[string]string
// @Router /private/nooks/{id}/cancel [post]
func (c *NookController) CancelNook(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}

	if appErr := c.NookService.CancelNook(ctx.Request().Context(), nookID, hostID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Nook cancelled")
}

// JoinNook handles POST /nooks/:id/join
// @Summary Request to join a nook
// @Tags Nook
// @Security BearerAuth
// @Param id path string true "Nook ID"
// @Success 200 {object} dto.MembershipResponse
// @Router /private/nooks/{id}/join [post]
func (c *NookController) JoinNook(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}

	result, appErr := c.NookService.JoinNook(ctx.Request().Context(), nookID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Join request sent")
}

// ApproveMember handles POST /nooks/:id/members/:userId/approve
// @Summary Approve a join request (host only)
// @Tags Nook
// @Security BearerAuth
// @Param id path string true "Nook ID"
// @Param userId path string true "User ID"
// @Success 200 {object} dto.MembershipResponse
// @Router /private/nooks/{id}/members/{userId}/approve [post]
func (c *NookController) ApproveMember(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}
	userID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	result, appErr := c.NookService.ApproveMember(ctx.Request().Context(), nookID, hostID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Member approved")
}

// DeclineMember handles POST /nooks/:id/members/:userId/decline
// @Summary Decline a join request (host only)
// @Tags Nook
// @Security BearerAuth
// @Param id path string true "Nook ID"
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]string
// @Router /private/nooks/{id}/members/{userId}/decline [post]
func (c *NookController) DeclineMember(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}
	userID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	if appErr := c.NookService.DeclineMember(ctx.Request().Context(), nookID, hostID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Member declined")
}

// UpdateCommitment handles PUT /nooks/:id/commitment
// @Summary Set the caller's commitment status
// @Tags Nook
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Nook ID"
// @Param request body dto.CommitmentUpdateRequest true "Target status"
// @Success 200 {object} dto.CommitmentResponse
// @Router /private/nooks/{id}/commitment [put]
func (c *NookController) UpdateCommitment(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}

	var req dto.CommitmentUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	target := entity.CommitmentStatus(req.Status)
	switch target {
	case entity.CommitmentConfirmed, entity.CommitmentUnsure, entity.CommitmentOnTheWay,
		entity.CommitmentRunningLate, entity.CommitmentCancelled:
	default:
		return c.BadRequest(errors.ErrInvalidInput, "Unknown commitment status")
	}

	result, appErr := c.CommitmentService.UpdateCommitment(ctx.Request().Context(), nookID, userID, target)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Status updated")
}

// GetReadiness handles GET /nooks/:id/readiness
// @Summary Get the group readiness rollup
// @Tags Nook
// @Security BearerAuth
// @Produce json
// @Param id path string true "Nook ID"
// @Success 200 {object} dto.ReadinessResponse
// @Router /private/nooks/{id}/readiness [get]
func (c *NookController) GetReadiness(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	nookID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid nook ID")
	}

	result, appErr := c.ReadinessService.GetReadiness(ctx.Request().Context(), nookID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
