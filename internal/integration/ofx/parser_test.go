package ofx

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

const bankStatement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[-3:BRT]
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0341
<ACCTID>12345-6
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301000000[-3:BRT]
<DTEND>20240315000000[-3:BRT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240305120000[-3:BRT]
<TRNAMT>-45.90
<FITID>202403050001
<NAME>UBER TRIP
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240306120000[-3:BRT]
<TRNAMT>-120.00
<FITID>202403060001
<NAME>PIX
<MEMO>Mercado Pao de Acucar
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240310120000[-3:BRT]
<TRNAMT>5000.00
<FITID>202403100001
<NAME>SALARIO ACME
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>4834.10
<DTASOF>20240315000000[-3:BRT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

const cardStatement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301000000[0:GMT]
<DTEND>20240315000000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240302120000[0:GMT]
<TRNAMT>-12.5
<FITID>cc-1
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-12.50
<DTASOF>20240315000000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>
`

func TestParser_BankStatement(t *testing.T) {
	stmt, err := NewParser().Parse(strings.NewReader(bankStatement))
	require.NoError(t, err)

	assert.Equal(t, valueobject.CurrencyBRL, stmt.Currency)
	assert.Equal(t, "12345-6", stmt.Account)
	require.Len(t, stmt.Lines, 3)

	tests := []struct {
		id     string
		memo   string
		amount string
	}{
		{"202403050001", "UBER TRIP", "-45.90"},
		{"202403060001", "Mercado Pao de Acucar", "-120"},
		{"202403100001", "SALARIO ACME", "5000"},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			line := stmt.Lines[i]
			assert.Equal(t, tt.id, line.ExternalID)
			assert.Equal(t, tt.memo, line.Memo)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(line.Amount), line.Amount.String())
		})
	}

	assert.Equal(t, time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC), stmt.Lines[0].Date.UTC())
}

func TestParser_CreditCardStatement(t *testing.T) {
	stmt, err := NewParser().Parse(strings.NewReader("\n\n" + cardStatement))
	require.NoError(t, err)

	want := &adapter.Statement{
		Currency: valueobject.CurrencyUSD,
		Account:  "4111111111111111",
		Lines: []adapter.StatementLine{{
			ExternalID: "cc-1",
			Date:       time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
			Memo:       "NETFLIX.COM",
			Amount:     decimal.RequireFromString("-12.5"),
		}},
	}
	// time.Time and decimal.Decimal are compared with their Equal methods
	if diff := cmp.Diff(want, stmt); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Invalid(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}
