package tradebook

// Filter selects transaction records. An empty field matches every record; a
// non-empty field is normalized the same way as on write, so " eTh " matches
// records of symbol "ETH".
type Filter struct {
	AccountID string
	Kind      string
	Symbol    string
}

// criteria is a normalized Filter.
type criteria struct {
	account string
	kind    Kind
	symbol  string
}

// normalize validates the filter fields.
func (f Filter) normalize() (c criteria, err error) {
	if f.AccountID != "" {
		if c.account, err = normalizeAccountID(f.AccountID); err != nil {
			return c, err
		}
	}
	if f.Kind != "" {
		if c.kind, err = ParseKind(f.Kind); err != nil {
			return c, err
		}
	}
	if f.Symbol != "" {
		if c.symbol, err = normalizeSymbol(f.Symbol); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (c criteria) match(r TransactionRecord) bool {
	return (c.account == "" || r.accountID == c.account) &&
		(c.kind == "" || r.kind == c.kind) &&
		(c.symbol == "" || r.symbol == c.symbol)
}

// journal is an append-only list of records in commit order.
//
// It is not safe for concurrent use, its owner serializes accesses.
type journal struct {
	records []TransactionRecord
}

func (j *journal) append(r TransactionRecord) {
	j.records = append(j.records, r)
}

// filter returns a new slice with the records matching c, in commit order.
func (j *journal) filter(c criteria) []TransactionRecord {
	result := make([]TransactionRecord, 0)
	for _, r := range j.records {
		if c.match(r) {
			result = append(result, r)
		}
	}
	return result
}
