// Package telegram exposes the wallet through a Telegram chat bot.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/application/usecase/auth"
	"github.com/smartwallet/backend/internal/application/usecase/interpret"
	"github.com/smartwallet/backend/internal/application/usecase/transaction"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// MaxMessageLength is the longest text Telegram accepts in one message.
const MaxMessageLength = 4096

// Replies.
const (
	replyWelcome = "Olá! Eu sou a SmartWallet. 💰\n\n" +
		"Vincule sua conta com /link <email> <senha> e depois me mande seus gastos, " +
		"por texto ou áudio, por exemplo: \"gastei 45,90 no uber\".\n\n" +
		"/saldo - saldo do mês\n/cotacao - cotações do dia"
	replyNotLinked     = "Esta conversa não está vinculada. Use /link <email> <senha>."
	replyLinkUsage     = "Uso: /link <email> <senha>"
	replyUnknown       = "Comando desconhecido. Use /start para ver as opções."
	replyFailure       = "Não consegui registrar agora. Tente novamente em instantes."
	replyNoAmount      = "Não encontrei um valor na mensagem. Exemplo: \"almoço 32,50\"."
	replyEmpty         = "Mande um texto ou um áudio descrevendo a transação."
	replyAudioTooLarge = "O áudio é grande demais."
	replyUnavailable   = "A interpretação de áudio está indisponível no momento."
	replyBadLogin      = "Email ou senha inválidos."
	replyChatTaken     = "Esta conversa já está vinculada a outra conta."
)

// Message is an incoming chat message, already stripped of Telegram types.
type Message struct {
	ChatID    int64
	Command   string
	Args      string
	Text      string
	Audio     []byte
	AudioMIME string
}

// Recorder stores a transaction described in free form.
type Recorder interface {
	Execute(ctx context.Context, input interpret.RecordTransactionInput) (*interpret.RecordTransactionOutput, error)
}

// Linker binds a chat to an account.
type Linker interface {
	Execute(ctx context.Context, input auth.LinkTelegramInput) (*entity.User, error)
}

// Summarizer computes period totals.
type Summarizer interface {
	Execute(ctx context.Context, input transaction.GetSummaryInput) (*transaction.GetSummaryOutput, error)
}

// Handler answers chat messages.
type Handler struct {
	users    adapter.UserRepository
	recorder Recorder
	linker   Linker
	summary  Summarizer
	market   adapter.MarketData
	loc      *time.Location
	now      func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(
	users adapter.UserRepository,
	recorder Recorder,
	linker Linker,
	summary Summarizer,
	market adapter.MarketData,
	loc *time.Location,
) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		users:    users,
		recorder: recorder,
		linker:   linker,
		summary:  summary,
		market:   market,
		loc:      loc,
		now:      time.Now,
	}
}

// Handle returns the reply to msg.
func (h *Handler) Handle(ctx context.Context, msg Message) string {
	switch msg.Command {
	case "":
		return h.record(ctx, msg)
	case "start", "help":
		return replyWelcome
	case "link":
		return h.link(ctx, msg)
	case "saldo":
		return h.balance(ctx, msg)
	case "cotacao":
		return h.rates(ctx)
	default:
		return replyUnknown
	}
}

func (h *Handler) link(ctx context.Context, msg Message) string {
	fields := strings.Fields(msg.Args)
	if len(fields) != 2 {
		return replyLinkUsage
	}

	user, err := h.linker.Execute(ctx, auth.LinkTelegramInput{
		ChatID:   msg.ChatID,
		Email:    fields[0],
		Password: fields[1],
	})
	switch {
	case errors.Is(err, domainerror.ErrInvalidCredentials):
		return replyBadLogin
	case errors.Is(err, domainerror.ErrChatAlreadyLinked):
		return replyChatTaken
	case err != nil:
		slog.Error("Failed to link telegram chat", "error", err, "chatID", msg.ChatID)
		return replyFailure
	}
	return fmt.Sprintf("Conta de %s vinculada! Agora é só me mandar seus gastos.", user.Name)
}

func (h *Handler) balance(ctx context.Context, msg Message) string {
	user, ok, reply := h.linkedUser(ctx, msg.ChatID)
	if !ok {
		return reply
	}

	month := valueobject.MonthOf(h.now().In(h.loc))
	out, err := h.summary.Execute(ctx, transaction.GetSummaryInput{
		UserID:    user.ID,
		StartDate: month.Start(),
		EndDate:   month.End(),
	})
	if err != nil {
		slog.Error("Failed to compute balance", "error", err, "userID", user.ID)
		return replyFailure
	}

	return fmt.Sprintf("📊 %s\nReceitas: %s\nDespesas: %s\nSaldo: %s",
		month.Key(),
		valueobject.FormatBRL(out.Totals.IncomeTotal),
		valueobject.FormatBRL(out.Totals.ExpenseTotal),
		valueobject.FormatBRL(out.Totals.Balance),
	)
}

func (h *Handler) rates(ctx context.Context) string {
	rates := h.market.CurrentRates(ctx)

	var sb strings.Builder
	fmt.Fprintf(&sb, "💱 Cotações (%s)\n", rates.Status)
	for _, c := range valueobject.ForeignCurrencies {
		if r, ok := rates.Rate(c); ok {
			fmt.Fprintf(&sb, "%s: %s\n", c, valueobject.FormatBRL(r))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (h *Handler) record(ctx context.Context, msg Message) string {
	user, ok, reply := h.linkedUser(ctx, msg.ChatID)
	if !ok {
		return reply
	}

	out, err := h.recorder.Execute(ctx, interpret.RecordTransactionInput{
		UserID:   user.ID,
		Text:     msg.Text,
		Audio:    msg.Audio,
		MIMEType: msg.AudioMIME,
	})
	switch {
	case errors.Is(err, domainerror.ErrNoAmount):
		return replyNoAmount
	case errors.Is(err, domainerror.ErrEmptyInput):
		return replyEmpty
	case errors.Is(err, domainerror.ErrAudioTooLarge):
		return replyAudioTooLarge
	case errors.Is(err, domainerror.ErrInterpretationUnavailable):
		return replyUnavailable
	case err != nil:
		slog.Error("Failed to record telegram transaction", "error", err, "userID", user.ID)
		return replyFailure
	}

	return confirmation(out.Transaction)
}

func (h *Handler) linkedUser(ctx context.Context, chatID int64) (*entity.User, bool, string) {
	user, err := h.users.FindByTelegramChatID(ctx, chatID)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		return nil, false, replyNotLinked
	}
	if err != nil {
		slog.Error("Failed to find telegram user", "error", err, "chatID", chatID)
		return nil, false, replyFailure
	}
	return user, true, ""
}

func confirmation(tx *entity.Transaction) string {
	icon, label := "🔴", "Despesa"
	if tx.Type == entity.TransactionTypeIncome {
		icon, label = "🟢", "Receita"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s registrada: %s\n", icon, label, valueobject.FormatBRL(tx.Amount))
	if !tx.OriginalCurrency.IsBase() {
		fmt.Fprintf(&sb, "(%s %s × %s)\n", tx.OriginalAmount.String(), tx.OriginalCurrency, tx.ExchangeRate.String())
	}
	fmt.Fprintf(&sb, "%s · %s · %s", tx.Category, tx.Description, tx.Date.Format("02/01/2006"))
	return sb.String()
}

// truncate cuts text to MaxMessageLength runes.
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxMessageLength {
		return text
	}
	return string(runes[:MaxMessageLength-1]) + "…"
}
