// Package ofx reads bank and credit card statements in OFX format.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagPattern  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// genericNames are transaction names that say nothing about the merchant.
var genericNames = map[string]bool{
	"DEBIT":         true,
	"CREDIT":        true,
	"PAGAMENTO":     true,
	"PAYMENT":       true,
	"COMPRA":        true,
	"PURCHASE":      true,
	"PIX":           true,
	"TRANSFERENCIA": true,
}

// Parser implements adapter.StatementParser for OFX 1.x (SGML) and 2.x (XML).
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads every bank and credit card statement in the file. Lines of
// all statements are returned together; the currency is the one of the
// first statement.
func (p *Parser) Parse(r io.Reader) (*adapter.Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	statement := &adapter.Statement{Currency: valueobject.BaseCurrency}
	first := true
	use := func(curDef ofxgo.CurrSymbol, account string, list *ofxgo.TransactionList) {
		if first {
			statement.Currency = currencyOf(curDef)
			statement.Account = account
			first = false
		}
		if list == nil {
			return
		}
		for _, tx := range list.Transactions {
			statement.Lines = append(statement.Lines, convert(tx))
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			use(stmt.CurDef, string(stmt.BankAcctFrom.AcctID), stmt.BankTranList)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			use(stmt.CurDef, string(stmt.CCAcctFrom.AcctID), stmt.BankTranList)
		}
	}

	slog.Debug("Parsed OFX file",
		"account", statement.Account,
		"currency", statement.Currency,
		"lines", len(statement.Lines))

	return statement, nil
}

// preprocess fixes formatting problems common in bank exports.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n\ufeff")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagPattern.ReplaceAllString(content, "$1>")
}

func currencyOf(curDef ofxgo.CurrSymbol) valueobject.Currency {
	code := strings.ToUpper(curDef.String())
	if code == "" || code == "XXX" {
		return valueobject.BaseCurrency
	}
	return valueobject.Currency(code)
}

func convert(tx ofxgo.Transaction) adapter.StatementLine {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(8))
	if err != nil {
		amount = decimal.Zero
	}

	return adapter.StatementLine{
		ExternalID: string(tx.FiTID),
		Date:       tx.DtPosted.Time,
		Memo:       memoOf(tx),
		Amount:     amount,
	}
}

// memoOf picks the most descriptive text of a line: the payee, then the
// name unless it is generic, then the memo.
func memoOf(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	memo := strings.TrimSpace(string(tx.Memo))
	if memo != "" && (name == "" || genericNames[strings.ToUpper(name)]) {
		return memo
	}
	return name
}
