package ledger

import (
	"testing"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		residentID := uuid.New()
		w, err := NewWallet(residentID)

		require.NoError(t, err)
		assert.Equal(t, residentID, w.ResidentID)
		assert.True(t, w.Balance.IsZero())
		assert.Len(t, w.GetDomainEvents(), 1)
	})

	t.Run("empty resident", func(t *testing.T) {
		_, err := NewWallet(uuid.Nil)
		require.Error(t, err)
	})
}

func TestWallet_Credit(t *testing.T) {
	w, _ := NewWallet(uuid.New())

	t.Run("increases balance", func(t *testing.T) {
		tx, err := w.Credit(valueobject.NewMoneyNGNFromFloat(5000), ReasonRefund, nil, "overpayment refund")

		require.NoError(t, err)
		assert.Equal(t, TransactionTypeCredit, tx.Type)
		assert.Equal(t, ReasonRefund, tx.Reason)
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		_, err := w.Credit(valueobject.ZeroNGN(), ReasonPayment, nil, "nothing")
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_AMOUNT", derr.Code)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := w.Credit(valueobject.NewMoneyNGNFromFloat(-10), ReasonPayment, nil, "negative")
		require.Error(t, err)
	})

	t.Run("unknown reason rejected", func(t *testing.T) {
		_, err := w.Credit(valueobject.NewMoneyNGNFromFloat(10), TransactionReason("bogus"), nil, "x")
		require.Error(t, err)
	})
}

func TestWallet_Debit(t *testing.T) {
	w, _ := NewWallet(uuid.New())
	_, err := w.Credit(valueobject.NewMoneyNGNFromFloat(5000), ReasonRefund, nil, "seed")
	require.NoError(t, err)

	t.Run("decreases balance", func(t *testing.T) {
		invoiceID := uuid.New()
		tx, err := w.Debit(valueobject.NewMoneyNGNFromFloat(2000), ReasonPayment, &invoiceID, "invoice settlement")

		require.NoError(t, err)
		assert.Equal(t, TransactionTypeDebit, tx.Type)
		require.NotNil(t, tx.ReferenceID)
		assert.Equal(t, invoiceID, *tx.ReferenceID)
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(3000)))
	})

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := w.Debit(valueobject.NewMoneyNGNFromFloat(10000), ReasonPayment, nil, "too much")
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INSUFFICIENT_FUNDS", derr.Code)
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(3000)), "failed debit must not move the balance")
	})

	t.Run("exact balance succeeds", func(t *testing.T) {
		_, err := w.Debit(valueobject.NewMoneyNGNFromFloat(3000), ReasonPayment, nil, "drain")
		require.NoError(t, err)
		assert.True(t, w.Balance.IsZero())
	})
}

func TestWallet_Conservation(t *testing.T) {
	// balance == sum of credits minus sum of debits, in creation order
	w, _ := NewWallet(uuid.New())

	var txs []*WalletTransaction
	steps := []struct {
		credit bool
		amount float64
		reason TransactionReason
	}{
		{true, 5000, ReasonRefund},
		{false, 2000, ReasonPayment},
		{true, 750.50, ReasonAdjustment},
		{false, 100.25, ReasonPenalty},
		{true, 10, ReasonOther},
	}

	for _, s := range steps {
		var tx *WalletTransaction
		var err error
		if s.credit {
			tx, err = w.Credit(valueobject.NewMoneyNGNFromFloat(s.amount), s.reason, nil, "step")
		} else {
			tx, err = w.Debit(valueobject.NewMoneyNGNFromFloat(s.amount), s.reason, nil, "step")
		}
		require.NoError(t, err)
		txs = append(txs, tx)
	}

	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.SignedAmount())
	}
	assert.True(t, w.Balance.Equal(sum), "balance %s != ledger sum %s", w.Balance, sum)
}

func TestWalletTransaction_SignedAmount(t *testing.T) {
	w, _ := NewWallet(uuid.New())
	credit, err := w.Credit(valueobject.NewMoneyNGNFromFloat(100), ReasonPayment, nil, "c")
	require.NoError(t, err)
	debit, err := w.Debit(valueobject.NewMoneyNGNFromFloat(40), ReasonPayment, nil, "d")
	require.NoError(t, err)

	assert.True(t, credit.SignedAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, debit.SignedAmount().Equal(decimal.NewFromInt(-40)))
}
