package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartwallet/backend/internal/application/usecase/budget"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/entrypoint/dto"
)

// BudgetController handles budget endpoints.
type BudgetController struct {
	listUseCase   *budget.ListBudgetsUseCase
	setUseCase    *budget.SetBudgetUseCase
	deleteUseCase *budget.DeleteBudgetUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	listUseCase *budget.ListBudgetsUseCase,
	setUseCase *budget.SetBudgetUseCase,
	deleteUseCase *budget.DeleteBudgetUseCase,
) *BudgetController {
	return &BudgetController{
		listUseCase:   listUseCase,
		setUseCase:    setUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /budgets requests, optionally for ?month=YYYY-MM.
func (c *BudgetController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), budget.ListBudgetsInput{
		UserID: userID,
		Month:  ctx.Query("month"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetListResponse(output))
}

// Set handles PUT /budgets and PUT /budgets/:category requests.
func (c *BudgetController) Set(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.SetBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidBudgetLimit),
		})
		return
	}

	categoryName := ctx.Param("category")
	if categoryName == "" {
		categoryName = req.Category
	}

	output, err := c.setUseCase.Execute(ctx.Request.Context(), budget.SetBudgetInput{
		UserID:        userID,
		Category:      categoryName,
		LimitAmount:   req.LimitAmount,
		AlertOnExceed: req.AlertEnabled(),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget))
}

// Delete handles DELETE /budgets/:category requests.
func (c *BudgetController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), budget.DeleteBudgetInput{
		UserID:   userID,
		Category: ctx.Param("category"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
