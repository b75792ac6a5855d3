package ledger

import (
	"context"
	"errors"
	"testing"

	"stockledger/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLot_Valuation(t *testing.T) {
	oracle := service.NewStaticOracle(map[string]float64{"ACME": 12.5})
	lot := NewLot(oracle, "ACME", 4, 10, 1700000000)

	assert.Equal(t, 40.0, lot.InitialValue())

	v, err := lot.CurrentValue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50.0, v)

	g, err := lot.TotalGain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, g)
}

func TestLot_PriceUnavailable(t *testing.T) {
	oracle := service.OracleFunc(func(context.Context, string) (float64, error) {
		return 0, service.ErrFeedUnavailable
	})
	lot := NewLot(oracle, "ACME", 4, 10, 0)

	assert.Equal(t, 40.0, lot.InitialValue())

	_, err := lot.CurrentValue(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPriceUnavailable))
	assert.True(t, errors.Is(err, service.ErrFeedUnavailable))

	_, err = lot.TotalGain(context.Background())
	assert.True(t, errors.Is(err, ErrPriceUnavailable))
}
