package ledger

import (
	"context"
	"testing"
	"time"

	"stockledger/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func openTest(t *testing.T, st Store, oracle service.PriceOracle) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), "Test", st, oracle, logrus.New())
	require.NoError(t, err)
	l.now = func() time.Time { return testNow }
	return l
}

func amounts(lots []Lot) []int64 {
	res := make([]int64, len(lots))
	for i, l := range lots {
		res[i] = l.Amount
	}
	return res
}

// addLots adds one lot per amount, all at price 10 unless prices is given.
func addLots(t *testing.T, l *Ledger, symbol string, lotAmounts []int64, prices ...float64) {
	t.Helper()
	for i, a := range lotAmounts {
		price := 10.0
		if i < len(prices) {
			price = prices[i]
		}
		_, err := l.Add(context.Background(), symbol, a, WithPrice(price), WithTimestamp(int64(1000+i)))
		require.NoError(t, err)
	}
}
