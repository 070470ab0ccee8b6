package traderepublic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		sample string
		want   Variant
	}{
		{"buy_limit_order.txt", BuyLimit},
		{"buy_limit_order_financial_transaction_tax.txt", BuyLimit},
		{"buy_market_order.txt", BuyMarket},
		{"buy_market_order_without_isin.txt", BuyMarket},
		{"buy_savings_plan.txt", BuySavingsPlan},
		{"sell_limit_order_tesla.txt", Sell},
		{"sell_limit_order_stryker.txt", Sell},
		{"dividend_royal_dutch_shell.txt", Dividend},
		{"dividend_ishares_stoxx_europe_select.txt", Dividend},
		{"dividend_ishares_euro_stoxx_select.txt", Dividend},
		{"dividend_ishares_developed_markets_property.txt", Dividend},
	}

	for _, tt := range tests {
		t.Run(tt.sample, func(t *testing.T) {
			got, err := Classify(loadSample(t, tt.sample))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Errors(t *testing.T) {
	t.Run("other broker", func(t *testing.T) {
		got, err := Classify(loadSample(t, "other_broker.txt"))
		assert.ErrorIs(t, err, apperrors.ErrNotThisBroker)
		assert.Equal(t, VariantUnknown, got)
	})

	t.Run("account statement", func(t *testing.T) {
		got, err := Classify(loadSample(t, "unrecognized_variant.txt"))
		assert.ErrorIs(t, err, apperrors.ErrUnrecognizedVariant)
		assert.Equal(t, VariantUnknown, got)
	})
}

func TestClassify_Priority(t *testing.T) {
	header := []string{"TRADE REPUBLIC BANK GMBH", "www.traderepublic.com"}

	t.Run("dividend wins over order markers", func(t *testing.T) {
		lines := append([]string{"DIVIDENDE", "Market-Order Kauf am 01.02.2020"}, header...)
		got, err := Classify(lines)
		require.NoError(t, err)
		assert.Equal(t, Dividend, got)
	})

	t.Run("savings plan wins over market order", func(t *testing.T) {
		lines := append([]string{"Sparplanausführung am 16.01.2020", "Market-Order Kauf am 16.01.2020"}, header...)
		got, err := Classify(lines)
		require.NoError(t, err)
		assert.Equal(t, BuySavingsPlan, got)
	})

	t.Run("sell wins over buy", func(t *testing.T) {
		lines := append([]string{"Limit-Order Verkauf am 04.02.2020", "Limit-Order Kauf am 01.02.2020"}, header...)
		got, err := Classify(lines)
		require.NoError(t, err)
		assert.Equal(t, Sell, got)
	})

	t.Run("stop-limit order counts as limit order", func(t *testing.T) {
		lines := append([]string{"Stop-Limit-Order Kauf am 04.02.2020"}, header...)
		got, err := Classify(lines)
		require.NoError(t, err)
		assert.Equal(t, BuyLimit, got)
	})
}

func TestVariant_String(t *testing.T) {
	assert.Equal(t, "buy-limit", BuyLimit.String())
	assert.Equal(t, "buy-market", BuyMarket.String())
	assert.Equal(t, "buy-savings-plan", BuySavingsPlan.String())
	assert.Equal(t, "sell", Sell.String())
	assert.Equal(t, "dividend", Dividend.String())
	assert.Equal(t, "unknown", VariantUnknown.String())
}

func TestParser_Classify(t *testing.T) {
	p := New()
	assert.Equal(t, Broker, p.Broker())

	got, err := p.Classify(loadSample(t, "buy_savings_plan.txt"))
	require.NoError(t, err)
	assert.Equal(t, "buy-savings-plan", got)

	_, err = p.Classify(loadSample(t, "garbled.txt"))
	assert.ErrorIs(t, err, apperrors.ErrNotThisBroker)
}
