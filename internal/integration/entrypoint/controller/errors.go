package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/entrypoint/dto"
)

// respondError maps a domain error to its HTTP status and error code.
// Unknown errors become a generic 500.
func respondError(ctx *gin.Context, err error) {
	status, code, message := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err, "path", ctx.FullPath())
	}
	ctx.JSON(status, dto.ErrorResponse{Error: message, Code: code})
}

func classify(err error) (int, string, string) {
	var (
		authErr   *domainerror.AuthError
		txnErr    *domainerror.TransactionError
		catErr    *domainerror.CategoryError
		budgetErr *domainerror.BudgetError
		recErr    *domainerror.RecurringError
		nlpErr    *domainerror.InterpretationError
		ratesErr  *domainerror.RatesError
		importErr *domainerror.ImportError
	)

	switch {
	case errors.As(err, &authErr):
		return getStatusCodeForAuthError(authErr.Code), string(authErr.Code), authErr.Message
	case errors.As(err, &txnErr):
		return getStatusCodeForTransactionError(txnErr.Code), string(txnErr.Code), txnErr.Message
	case errors.As(err, &catErr):
		return getStatusCodeForCategoryError(catErr.Code), string(catErr.Code), catErr.Message
	case errors.As(err, &budgetErr):
		return getStatusCodeForBudgetError(budgetErr.Code), string(budgetErr.Code), budgetErr.Message
	case errors.As(err, &recErr):
		return getStatusCodeForRecurringError(recErr.Code), string(recErr.Code), recErr.Message
	case errors.As(err, &nlpErr):
		return getStatusCodeForInterpretationError(nlpErr.Code), string(nlpErr.Code), nlpErr.Message
	case errors.As(err, &ratesErr):
		return getStatusCodeForRatesError(ratesErr.Code), string(ratesErr.Code), ratesErr.Message
	case errors.As(err, &importErr):
		return getStatusCodeForImportError(importErr.Code), string(importErr.Code), importErr.Message
	}
	return http.StatusInternalServerError, "", "An internal error occurred"
}

func getStatusCodeForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists, domainerror.ErrCodeChatAlreadyLinked:
		return http.StatusConflict
	case domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidTransactionType,
		domainerror.ErrCodeInvalidTransactionAmount,
		domainerror.ErrCodeInvalidDescription,
		domainerror.ErrCodeUnknownCategory,
		domainerror.ErrCodeInvalidTransactionDate,
		domainerror.ErrCodeMissingTransactionFields,
		domainerror.ErrCodeInvalidDateRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForCategoryError(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeCategoryNameExists:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidCategoryName, domainerror.ErrCodeBaseCategoryImmutable:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForBudgetError(code domainerror.BudgetErrorCode) int {
	switch code {
	case domainerror.ErrCodeBudgetNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidBudgetLimit,
		domainerror.ErrCodeBudgetUnknownCategory,
		domainerror.ErrCodeInvalidBudgetMonth:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForRecurringError(code domainerror.RecurringErrorCode) int {
	switch code {
	case domainerror.ErrCodeRecurringNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidDayOfMonth,
		domainerror.ErrCodeInvalidRecurringAmount,
		domainerror.ErrCodeInvalidRecurringDesc,
		domainerror.ErrCodeInvalidRecurringType,
		domainerror.ErrCodeRecurringUnknownCategory:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForInterpretationError(code domainerror.InterpretationErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmptyInput, domainerror.ErrCodeNoAmount:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeAudioTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeInterpretationUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForRatesError(code domainerror.RatesErrorCode) int {
	switch code {
	case domainerror.ErrCodeUnsupportedCurrency:
		return http.StatusBadRequest
	case domainerror.ErrCodeRatesUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForImportError(code domainerror.ImportErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidStatement, domainerror.ErrCodeEmptyStatement:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeStatementTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
