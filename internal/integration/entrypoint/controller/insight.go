package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartwallet/backend/internal/application/usecase/coach"
	"github.com/smartwallet/backend/internal/application/usecase/rates"
	"github.com/smartwallet/backend/internal/integration/entrypoint/dto"
)

// InsightController serves market rates and the financial coach.
type InsightController struct {
	ratesUseCase  *rates.GetRatesUseCase
	adviceUseCase *coach.GetAdviceUseCase
}

// NewInsightController creates a new insight controller instance.
func NewInsightController(ratesUseCase *rates.GetRatesUseCase, adviceUseCase *coach.GetAdviceUseCase) *InsightController {
	return &InsightController{
		ratesUseCase:  ratesUseCase,
		adviceUseCase: adviceUseCase,
	}
}

// Rates handles GET /rates requests.
func (c *InsightController) Rates(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToRatesResponse(c.ratesUseCase.Execute(ctx.Request.Context())))
}

// Coach handles GET /coach requests.
func (c *InsightController) Coach(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.adviceUseCase.Execute(ctx.Request.Context(), coach.GetAdviceInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AdviceResponse{
		Advice:       output.Advice,
		Offline:      output.Offline,
		Transactions: output.Transactions,
	})
}
