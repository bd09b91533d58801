package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/usecase/recurring"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/entrypoint/dto"
)

// RecurringController handles recurring item endpoints.
type RecurringController struct {
	listUseCase    *recurring.ListRecurringUseCase
	createUseCase  *recurring.CreateRecurringUseCase
	deleteUseCase  *recurring.DeleteRecurringUseCase
	processUseCase *recurring.ProcessRecurringUseCase
}

// NewRecurringController creates a new recurring controller instance.
func NewRecurringController(
	listUseCase *recurring.ListRecurringUseCase,
	createUseCase *recurring.CreateRecurringUseCase,
	deleteUseCase *recurring.DeleteRecurringUseCase,
	processUseCase *recurring.ProcessRecurringUseCase,
) *RecurringController {
	return &RecurringController{
		listUseCase:    listUseCase,
		createUseCase:  createUseCase,
		deleteUseCase:  deleteUseCase,
		processUseCase: processUseCase,
	}
}

// List handles GET /recurring requests.
func (c *RecurringController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), recurring.ListRecurringInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringListResponse(output.Items))
}

// Create handles POST /recurring requests.
func (c *RecurringController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateRecurringRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidRecurringDesc),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), recurring.CreateRecurringInput{
		UserID:      userID,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Type:        entity.TransactionType(req.Type),
		DayOfMonth:  req.DayOfMonth,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToRecurringResponse(output.Item))
}

// Delete handles DELETE /recurring/:id requests.
func (c *RecurringController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid recurring item ID",
			Code:  string(domainerror.ErrCodeRecurringNotFound),
		})
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), recurring.DeleteRecurringInput{UserID: userID, ID: id}); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Process handles POST /recurring/process requests.
func (c *RecurringController) Process(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.processUseCase.Execute(ctx.Request.Context(), recurring.ProcessRecurringInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ProcessRecurringResponse{
		Generated:    output.Generated,
		Transactions: dto.ToTransactionResponses(output.Transactions),
	})
}
