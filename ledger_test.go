package tradebook

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_RecordBuy(t *testing.T) {
	l := must(NewLedger())

	rec, err := l.RecordBuy(" a1 ", " eth ", Text("0.123456789"), Text("100.005"))
	require.NoError(t, err)

	assert.Equal(t, "a1", rec.AccountID())
	assert.Equal(t, Buy, rec.Kind())
	assert.Len(t, rec.ID(), 32)
	assert.False(t, rec.Timestamp().IsZero())
	sym, ok := rec.Symbol()
	assert.True(t, ok)
	assert.Equal(t, "ETH", sym)
	assertDecimal(t, "quantity", must2(rec.Quantity()), "0.12345679")
	assertDecimal(t, "price", must2(rec.Price()), "100.01")
	assertDecimal(t, "total", must2(rec.Total()), "12.35")
	assertDecimal(t, "amount", rec.Amount(), "-12.35")
}

func TestLedger_RecordSell(t *testing.T) {
	l := must(NewLedger())

	rec, err := l.RecordSell("a1", "btc", Float(0.5), Int(30000))
	require.NoError(t, err)
	assert.Equal(t, Sell, rec.Kind())
	assertDecimal(t, "total", must2(rec.Total()), "15000")
	assertDecimal(t, "amount", rec.Amount(), "15000")
}

func TestLedger_CashRecords(t *testing.T) {
	l := must(NewLedger())

	dep, err := l.RecordDeposit("a1", Text("100.005"))
	require.NoError(t, err)
	assert.Equal(t, Deposit, dep.Kind())
	assertDecimal(t, "deposit", dep.Amount(), "100.01")
	_, ok := dep.Symbol()
	assert.False(t, ok)
	_, ok = dep.Quantity()
	assert.False(t, ok)

	wd, err := l.RecordWithdrawal("a1", Float(20.5))
	require.NoError(t, err)
	assert.Equal(t, Withdrawal, wd.Kind())
	assertDecimal(t, "withdrawal", wd.Amount(), "-20.5")
	assert.NotEqual(t, dep.ID(), wd.ID())

	// 0.005 rounds half away from zero to 0.01 and is accepted.
	small, err := l.RecordWithdrawal("a1", Text("0.005"))
	require.NoError(t, err)
	assertDecimal(t, "withdrawal", small.Amount(), "-0.01")
}

func TestLedger_Rejections(t *testing.T) {
	l := must(NewLedger())

	tests := []struct {
		name      string
		record    func() (TransactionRecord, error)
		wantErr   error
		wantField string
	}{
		{"amount rounding to zero", func() (TransactionRecord, error) { return l.RecordDeposit("a1", Text("0.004")) }, ErrInvalidAmount, "amount"},
		{"negative amount", func() (TransactionRecord, error) { return l.RecordWithdrawal("a1", Int(-5)) }, ErrInvalidAmount, "amount"},
		{"zero amount", func() (TransactionRecord, error) { return l.RecordDeposit("a1", Int(0)) }, ErrInvalidAmount, "amount"},
		{"missing amount", func() (TransactionRecord, error) { return l.RecordDeposit("a1", Number{}) }, ErrInvalidValueType, "amount"},
		{"NaN amount", func() (TransactionRecord, error) { return l.RecordDeposit("a1", Text("nan")) }, ErrNonFiniteValue, "amount"},
		{"bad literal", func() (TransactionRecord, error) { return l.RecordDeposit("a1", Text("ten")) }, ErrInvalidValueFormat, "amount"},
		{"huge exponent", func() (TransactionRecord, error) { return l.RecordDeposit("a1", Text("1e20000000")) }, ErrInvalidValueFormat, "amount"},
		{"tiny exponent", func() (TransactionRecord, error) { return l.RecordDeposit("a1", Text("1e-20000000")) }, ErrInvalidValueFormat, "amount"},
		{"blank account", func() (TransactionRecord, error) { return l.RecordDeposit("  ", Int(1)) }, ErrInvalidAccountID, ""},
		{"blank symbol", func() (TransactionRecord, error) { return l.RecordBuy("a1", " ", Int(1), Int(1)) }, ErrInvalidSymbol, ""},
		{"quantity rounding to zero", func() (TransactionRecord, error) {
			return l.RecordBuy("a1", "ETH", Text("0.000000001"), Int(1))
		}, ErrInvalidQuantity, "quantity"},
		{"negative price", func() (TransactionRecord, error) { return l.RecordSell("a1", "ETH", Int(1), Text("-1")) }, ErrInvalidPrice, "price"},
		{"price rounding to zero", func() (TransactionRecord, error) { return l.RecordSell("a1", "ETH", Int(1), Text("0.001")) }, ErrInvalidPrice, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.record()
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, rec.ID())
			if tt.wantField != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
			}
		})
	}

	records, err := l.Transactions(Filter{})
	require.NoError(t, err)
	assert.Empty(t, records, "rejected inputs must not be recorded")
}

func TestLedger_ZeroPrecision(t *testing.T) {
	l := must(NewLedger(WithCurrencyPrecision(0), WithAssetPrecision(2)))
	assert.Equal(t, 0, l.CurrencyPrecision())
	assert.Equal(t, 2, l.AssetPrecision())

	dep, err := l.RecordDeposit("a1", Text("0.5"))
	require.NoError(t, err)
	assertDecimal(t, "deposit", dep.Amount(), "1")

	buy, err := l.RecordBuy("a1", "X", Text("1.234"), Text("5.5"))
	require.NoError(t, err)
	assertDecimal(t, "quantity", must2(buy.Quantity()), "1.23")
	assertDecimal(t, "price", must2(buy.Price()), "6")
	assertDecimal(t, "total", must2(buy.Total()), "7")
	assertDecimal(t, "amount", buy.Amount(), "-7")
}

func TestNewLedger_Configuration(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative currency precision", WithCurrencyPrecision(-1)},
		{"negative asset precision", WithAssetPrecision(-2)},
		{"unknown currency", WithCurrency("ZZZ")},
		{"nil store", WithStore(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLedger(tt.opt)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Nil(t, l)
		})
	}

	l, err := NewLedger()
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrencyPrecision, l.CurrencyPrecision())
	assert.Equal(t, DefaultAssetPrecision, l.AssetPrecision())

	jpy, err := NewLedger(WithCurrency("jpy"))
	require.NoError(t, err)
	assert.Equal(t, "JPY", jpy.Currency())
	assert.Equal(t, 0, jpy.CurrencyPrecision())

	// An explicit precision wins over the currency minor unit.
	usd4, err := NewLedger(WithCurrency("USD"), WithCurrencyPrecision(4))
	require.NoError(t, err)
	assert.Equal(t, 4, usd4.CurrencyPrecision())
}

func TestLedger_Transactions(t *testing.T) {
	l := must(NewLedger())
	must(l.RecordDeposit("a1", Int(100)))
	must(l.RecordBuy("a1", "ETH", Int(1), Int(10)))
	must(l.RecordBuy("a2", "btc", Int(1), Int(20)))
	must(l.RecordSell("a1", "eth", Int(1), Int(12)))

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"account", Filter{AccountID: " a1 "}, 3},
		{"symbol", Filter{Symbol: " eTh "}, 2},
		{"kind", Filter{Kind: "buy"}, 2},
		{"combined", Filter{AccountID: "a1", Kind: "BUY", Symbol: "eth"}, 1},
		{"unknown account", Filter{AccountID: "ghost"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Transactions(tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}

	all := must(l.Transactions(Filter{}))
	kinds := make([]Kind, 0, len(all))
	for _, r := range all {
		kinds = append(kinds, r.Kind())
	}
	assert.Equal(t, []Kind{Deposit, Buy, Buy, Sell}, kinds, "records are listed in commit order")

	// Lists are snapshots.
	all[0] = TransactionRecord{}
	again := must(l.Transactions(Filter{}))
	assert.Equal(t, Deposit, again[0].Kind())

	_, err := l.Transactions(Filter{Kind: "TRANSFER"})
	assert.ErrorIs(t, err, ErrInvalidKind)
	_, err = l.Transactions(Filter{AccountID: "\t"})
	assert.ErrorIs(t, err, ErrInvalidAccountID)
	_, err = l.AccountTransactions("", Filter{})
	assert.ErrorIs(t, err, ErrInvalidAccountID)

	a1 := must(l.AccountTransactions("a1", Filter{Kind: "SELL"}))
	assert.Len(t, a1, 1)
}

func TestLedger_Concurrency(t *testing.T) {
	const workers, buys = 5, 200
	l := must(NewLedger())

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range buys {
				if _, err := l.RecordBuy("a1", "X", Text("0.01"), Int(1)); err != nil {
					t.Errorf("RecordBuy() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	records := must(l.Transactions(Filter{AccountID: "a1", Kind: "BUY"}))
	require.Len(t, records, workers*buys)
	sum := d("0")
	ids := make(map[string]bool, len(records))
	for _, r := range records {
		sum = sum.Add(r.Amount())
		ids[r.ID()] = true
	}
	assertDecimal(t, "sum of amounts", sum, "-10")
	assert.Len(t, ids, workers*buys, "ids must be unique")
}

// resolver is an AccountResolver over a fixed set of accounts.
type resolver struct {
	accounts map[string]bool
	err      error
}

func (r resolver) ResolveAccount(id string) (AccountSnapshot, error) {
	if !r.accounts[id] {
		return AccountSnapshot{}, r.err
	}
	return AccountSnapshot{ID: id}, nil
}

func TestLedger_WithAccounts(t *testing.T) {
	errUnknown := errors.New("no such customer")
	l := must(NewLedger(WithAccounts(resolver{accounts: map[string]bool{"a1": true}, err: errUnknown})))

	_, err := l.RecordDeposit(" a1 ", Int(10))
	require.NoError(t, err)

	// The resolver error is returned unchanged.
	_, err = l.RecordDeposit("ghost", Int(10))
	assert.Same(t, errUnknown, err)
	_, err = l.RecordBuy("ghost", "ETH", Int(1), Int(1))
	assert.Same(t, errUnknown, err)
	_, err = l.Transactions(Filter{AccountID: "ghost"})
	assert.Same(t, errUnknown, err)

	// Input validation comes first.
	_, err = l.RecordDeposit("ghost", Int(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	records, err := l.Transactions(Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLedger_WithStore(t *testing.T) {
	s := NewStore()
	dir := NewAccountDirectory(s)
	must(dir.Open("a1", Int(100)))

	t.Run("without resolver", func(t *testing.T) {
		l := must(NewLedger(WithStore(s)))
		_, err := l.RecordDeposit("ghost", Int(1))
		assert.ErrorIs(t, err, ErrRecordNotFound)

		records, err := l.Transactions(Filter{AccountID: "ghost"})
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("with resolver", func(t *testing.T) {
		l := must(NewLedger(WithStore(s), WithAccounts(dir)))

		must(l.RecordDeposit("a1", Text("50.005")))
		must(l.RecordBuy("a1", "eth", Int(3), Int(10)))
		must(l.RecordSell("a1", "ETH", Int(3), Int(12)))
		must(l.RecordBuy("a1", "btc", Text("0.5"), Int(20)))
		must(l.RecordWithdrawal("a1", Int(1)))

		bal := must(s.Balance("a1"))
		assertDecimal(t, "balance", bal, "145.01") // 100 + 50.01 - 30 + 36 - 10 - 1
		holdings := must(s.Holdings("a1"))
		assert.Len(t, holdings, 1, "the ETH position is closed")
		assertDecimal(t, "BTC", holdings["BTC"], "0.5")

		records := must(l.AccountTransactions("a1", Filter{}))
		assert.Len(t, records, 5)
		fromStore := must(s.Transactions(Filter{AccountID: "a1"}))
		require.Len(t, fromStore, 5)
		assert.True(t, fromStore[1].Equal(records[1]))

		_, err := l.RecordDeposit("ghost", Int(1))
		assert.ErrorIs(t, err, ErrAccountNotFound)
		_, err = l.Transactions(Filter{AccountID: "ghost"})
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestLedger_WithObserver(t *testing.T) {
	var mu sync.Mutex
	var seen []TransactionRecord
	l := must(NewLedger(WithObserver(func(r TransactionRecord) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r)
	})))

	rec := must(l.RecordDeposit("a1", Int(5)))
	_, err := l.RecordDeposit("a1", Int(-5))
	require.Error(t, err)

	require.Len(t, seen, 1, "rejected records are not observed")
	assert.True(t, seen[0].Equal(rec))
}

// must2 returns the value of an optional record field, it panics when unset.
func must2[T any](v T, ok bool) T {
	if !ok {
		panic("field is not set")
	}
	return v
}
