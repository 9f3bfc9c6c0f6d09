package importer

import (
	"strings"
	"time"

	"github.com/saldoboek/saldoboek/internal/model"
	"github.com/shopspring/decimal"
)

// Rabobank export headers.
const (
	raboColDate           = "Datum"
	raboColAmount         = "Bedrag"
	raboColAccount        = "IBAN/BBAN"
	raboColCounterAccount = "Tegenrekening IBAN/BBAN"
	raboColName           = "Naam tegenpartij"
	raboColCurrency       = "Munt"
	raboColBalanceAfter   = "Saldo na trn"
)

var raboDescriptionCols = []string{"Omschrijving-1", "Omschrijving-2", "Omschrijving-3"}

var raboRequired = []string{raboColDate, raboColAmount, raboColAccount}

const raboDateLayout = "2006-01-02"

var raboEncodings = []Encoding{Latin1, UTF8, Windows1252}

// RaboParser parses Rabobank CSV exports with a named header row.
type RaboParser struct {
	// DefaultCurrency is used when Munt is absent or empty. Empty means EUR.
	DefaultCurrency string
}

func (p *RaboParser) Format() string { return "rabo" }

func (p *RaboParser) Parse(path string, acct model.AccountType) (*ParseResult, error) {
	f, err := readRecords(path, raboEncodings, ',')
	if err != nil {
		return nil, err
	}

	res := &ParseResult{Path: path, Format: p.Format(), Encoding: f.Encoding}
	if len(f.Records) == 0 {
		return res, nil
	}

	cols := make(map[string]int, len(f.Records[0]))
	for i, h := range f.Records[0] {
		h = strings.TrimSpace(h)
		if _, ok := cols[h]; !ok {
			cols[h] = i
		}
	}

	var missing []string
	for _, name := range raboRequired {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatch{Path: path, Missing: missing}
	}

	get := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok {
			return ""
		}
		return field(rec, i)
	}

	var descIdx []int
	for _, name := range raboDescriptionCols {
		if i, ok := cols[name]; ok {
			descIdx = append(descIdx, i)
		}
	}

	currency := p.DefaultCurrency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	for _, rec := range f.Records[1:] {
		if isBlank(rec) {
			continue
		}
		date, err := time.Parse(raboDateLayout, get(rec, raboColDate))
		if err != nil {
			res.Dropped++
			continue
		}
		amount, err := ParseLocaleAmount(get(rec, raboColAmount))
		if err != nil {
			res.Dropped++
			continue
		}
		balance, err := ParseLocaleAmount(get(rec, raboColBalanceAfter))
		if err != nil {
			balance = decimal.Zero
		}

		name := get(rec, raboColName)
		desc := name
		if len(descIdx) > 0 {
			parts := make([]string, 0, len(descIdx))
			for _, i := range descIdx {
				if v := field(rec, i); v != "" {
					parts = append(parts, v)
				}
			}
			desc = strings.Join(parts, " ")
		}
		cur := get(rec, raboColCurrency)
		if cur == "" {
			cur = currency
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:             date,
			AccountID:        get(rec, raboColAccount),
			CounterAccountID: get(rec, raboColCounterAccount),
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
