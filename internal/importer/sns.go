package importer

import (
	"strings"
	"time"

	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/shopspring/decimal"
)

// SNS export columns. The file has no header row.
const (
	snsColDate           = 0
	snsColAccount        = 1
	snsColCounterAccount = 2
	snsColName           = 3
	snsColCurrency       = 7
	snsColBalanceBefore  = 8
	snsColAmount         = 10
	snsColDescription    = 17
)

// snsDateLayout accepts days and months with or without a leading zero.
const snsDateLayout = "2-1-2006"

// snsMinColumns is how many of the mapped columns must be present.
const snsMinColumns = 6

var snsColumns = []struct {
	idx  int
	name string
}{
	{snsColDate, "date"},
	{snsColAccount, "account"},
	{snsColCounterAccount, "counter_account"},
	{snsColName, "name"},
	{snsColCurrency, "currency"},
	{snsColBalanceBefore, "balance_before"},
	{snsColAmount, "amount"},
	{snsColDescription, "description"},
}

var snsEncodings = []Encoding{UTF8, Latin1}

// SNSParser parses SNS Bank position-based CSV exports.
type SNSParser struct {
	// DefaultCurrency is used when the currency column is absent. Empty means EUR.
	DefaultCurrency string
}

func (p *SNSParser) Format() string { return "sns" }

func (p *SNSParser) Parse(path string, acct model.AccountType) (*ParseResult, error) {
	f, err := readRecords(path, snsEncodings, ',')
	if err != nil {
		return nil, err
	}

	res := &ParseResult{Path: path, Format: p.Format(), Encoding: f.Encoding}
	if len(f.Records) == 0 {
		return res, nil
	}

	width := 0
	for _, rec := range f.Records {
		width = max(width, len(rec))
	}
	var missing []string
	for _, c := range snsColumns {
		if c.idx >= width {
			missing = append(missing, c.name)
		}
	}
	if len(snsColumns)-len(missing) < snsMinColumns {
		return nil, &SchemaMismatch{Path: path, Missing: missing}
	}

	currency := p.DefaultCurrency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	for _, rec := range f.Records {
		if isBlank(rec) {
			continue
		}
		date, err := time.Parse(snsDateLayout, field(rec, snsColDate))
		if err != nil {
			res.Dropped++
			continue
		}
		amount, err := ParseAmount(field(rec, snsColAmount))
		if err != nil {
			res.Dropped++
			continue
		}
		balance, err := ParseAmount(field(rec, snsColBalanceBefore))
		if err != nil {
			balance = decimal.Zero
		}

		name := field(rec, snsColName)
		desc := field(rec, snsColDescription)
		if snsColDescription >= width {
			desc = name
		}
		cur := field(rec, snsColCurrency)
		if cur == "" {
			cur = currency
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:             date,
			AccountID:        field(rec, snsColAccount),
			CounterAccountID: field(rec, snsColCounterAccount),
			CounterpartyName: name,
			Description:      desc,
			Amount:           amount,
			BalanceBefore:    balance,
			Currency:         cur,
			AccountType:      acct,
		})
	}
	return res, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
