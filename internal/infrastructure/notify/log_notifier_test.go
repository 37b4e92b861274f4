package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/internal/infrastructure/notify"
	"github.com/jhoicas/happyshop-api/pkg/logger"
)

func TestLogNotifier_NoRevelaTarjeta(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(logger.NewWithWriter(&buf, "info"))

	p := entity.NewCardPayment(decimal.RequireFromString("10"), entity.MethodCreditCard,
		"4532015112830366", "Holder", "12/25", "123")
	ok, err := p.Process()
	require.NoError(t, err)
	require.True(t, ok)

	n.PaymentCompleted(context.Background(), 7, 42, p)

	out := buf.String()
	assert.Contains(t, out, `"transaction_id":42`)
	assert.Contains(t, out, "ending in 0366")
	assert.NotContains(t, out, "4532015112830366")
	assert.NotContains(t, out, `"123"`)
}
