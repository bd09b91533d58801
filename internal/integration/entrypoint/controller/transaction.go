package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/usecase/importer"
	"github.com/smartwallet/backend/internal/application/usecase/transaction"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
	"github.com/smartwallet/backend/internal/integration/entrypoint/dto"
	"github.com/smartwallet/backend/internal/integration/entrypoint/middleware"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	listUseCase        *transaction.ListTransactionsUseCase
	createUseCase      *transaction.CreateTransactionUseCase
	deleteUseCase      *transaction.DeleteTransactionUseCase
	summaryUseCase     *transaction.GetSummaryUseCase
	investmentsUseCase *transaction.GetInvestmentsUseCase
	purgeUseCase       *transaction.PurgeUseCase
	importUseCase      *importer.ImportStatementUseCase
	loc                *time.Location
}

// NewTransactionController creates a new transaction controller instance.
// Dates in queries are interpreted in loc.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	createUseCase *transaction.CreateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
	summaryUseCase *transaction.GetSummaryUseCase,
	investmentsUseCase *transaction.GetInvestmentsUseCase,
	purgeUseCase *transaction.PurgeUseCase,
	importUseCase *importer.ImportStatementUseCase,
	loc *time.Location,
) *TransactionController {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionController{
		listUseCase:        listUseCase,
		createUseCase:      createUseCase,
		deleteUseCase:      deleteUseCase,
		summaryUseCase:     summaryUseCase,
		investmentsUseCase: investmentsUseCase,
		purgeUseCase:       purgeUseCase,
		importUseCase:      importUseCase,
		loc:                loc,
	}
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := transaction.ListTransactionsInput{
		UserID:   userID,
		Type:     entity.TransactionType(ctx.Query("type")),
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
	}

	// endDate is inclusive on the wire and exclusive in the use case.
	if startDate, ok := c.parseDate(ctx.Query("startDate")); ok {
		input.StartDate = &startDate
	}
	if endDate, ok := c.parseDate(ctx.Query("endDate")); ok {
		end := endDate.AddDate(0, 0, 1)
		input.EndDate = &end
	}

	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		input.Page = page
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		input.Limit = limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingTransactionFields),
		})
		return
	}

	input := transaction.CreateTransactionInput{
		UserID:      userID,
		Description: req.Description,
		Merchant:    req.Merchant,
		Category:    req.Category,
		Amount:      req.Amount,
		Type:        entity.TransactionType(req.Type),
	}
	if req.Date != "" {
		date, err := parseTimestamp(req.Date, c.loc)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date",
				Code:  string(domainerror.ErrCodeInvalidTransactionDate),
			})
			return
		}
		input.Date = date
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID",
			Code:  string(domainerror.ErrCodeTransactionNotFound),
		})
		return
	}

	err = c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		UserID:        userID,
		TransactionID: id,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Summary handles GET /transactions/summary requests. The period is the
// month query parameter ("YYYY-MM"), a startDate/endDate pair, or the
// current month.
func (c *TransactionController) Summary(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	month := valueobject.MonthOf(time.Now().In(c.loc))
	if key := ctx.Query("month"); key != "" {
		parsed, err := valueobject.ParseMonth(key, c.loc)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid month",
				Code:  string(domainerror.ErrCodeInvalidDateRange),
			})
			return
		}
		month = parsed
	}

	start, end := month.Start(), month.End()
	if startDate, ok := c.parseDate(ctx.Query("startDate")); ok {
		start = startDate
	}
	if endDate, ok := c.parseDate(ctx.Query("endDate")); ok {
		end = endDate.AddDate(0, 0, 1)
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), transaction.GetSummaryInput{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output, start, end))
}

// Investments handles GET /transactions/investments requests.
func (c *TransactionController) Investments(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.investmentsUseCase.Execute(ctx.Request.Context(), transaction.GetInvestmentsInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.InvestmentsResponse{
		Total:        output.Total.StringFixed(2),
		Transactions: dto.ToTransactionResponses(output.Transactions),
	})
}

// Purge handles DELETE /transactions requests.
func (c *TransactionController) Purge(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.purgeUseCase.Execute(ctx.Request.Context(), transaction.PurgeInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PurgeResponse{
		Transactions: output.Transactions,
		Budgets:      output.Budgets,
		Recurring:    output.Recurring,
	})
}

// ImportOFX handles POST /transactions/import/ofx requests with the
// statement in the "file" form field.
func (c *TransactionController) ImportOFX(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Statement file is required",
			Code:  string(domainerror.ErrCodeInvalidStatement),
		})
		return
	}
	if header.Size > importer.MaxStatementBytes {
		respondError(ctx, domainerror.NewImportError(domainerror.ErrCodeStatementTooLarge, "statement file is too large", domainerror.ErrStatementTooLarge))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer file.Close()

	output, err := c.importUseCase.Execute(ctx.Request.Context(), importer.ImportStatementInput{
		UserID: userID,
		File:   file,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToImportResponse(output))
}

func (c *TransactionController) parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dto.DateLayout, s, c.loc)
	return t, err == nil
}

// parseTimestamp accepts RFC 3339 or a plain date.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dto.DateLayout, s, loc)
}

// requireUser returns the authenticated user or writes a 401.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}
