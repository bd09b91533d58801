package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartwallet/backend/internal/application/usecase/interpret"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/entrypoint/dto"
)

// InterpretController handles natural-language commands.
type InterpretController struct {
	interpretUseCase *interpret.InterpretUseCase
	recordUseCase    *interpret.RecordTransactionUseCase
}

// NewInterpretController creates a new interpret controller instance.
func NewInterpretController(
	interpretUseCase *interpret.InterpretUseCase,
	recordUseCase *interpret.RecordTransactionUseCase,
) *InterpretController {
	return &InterpretController{
		interpretUseCase: interpretUseCase,
		recordUseCase:    recordUseCase,
	}
}

// Interpret handles POST /interpret requests. Nothing is stored.
func (c *InterpretController) Interpret(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.InterpretRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeEmptyInput),
		})
		return
	}

	output, err := c.interpretUseCase.Execute(ctx.Request.Context(), interpret.InterpretInput{
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInterpretationResponse(output.Interpretation))
}

// RecordText handles POST /transactions/text requests.
func (c *InterpretController) RecordText(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.InterpretRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeEmptyInput),
		})
		return
	}

	c.record(ctx, interpret.RecordTransactionInput{UserID: userID, Text: req.Text})
}

// RecordAudio handles POST /transactions/audio requests with the voice
// note in the "audio" form field.
func (c *InterpretController) RecordAudio(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	header, err := ctx.FormFile("audio")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Audio file is required",
			Code:  string(domainerror.ErrCodeEmptyInput),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, interpret.MaxAudioBytes+1))
	if err != nil {
		respondError(ctx, err)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(audio)
	}

	c.record(ctx, interpret.RecordTransactionInput{
		UserID:   userID,
		Text:     ctx.PostForm("text"),
		Audio:    audio,
		MIMEType: mimeType,
	})
}

func (c *InterpretController) record(ctx *gin.Context, input interpret.RecordTransactionInput) {
	output, err := c.recordUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.RecordResponse{
		Transaction:    dto.ToTransactionResponse(output.Transaction),
		Interpretation: dto.ToInterpretationResponse(output.Interpretation),
	})
}
