package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustmentTypeSign(t *testing.T) {
	cases := []struct {
		adjType AdjustmentType
		sign    int
	}{
		{AdjustRestock, 1},
		{AdjustReturn, 1},
		{AdjustReduce, -1},
		{AdjustDamage, -1},
		{AdjustAdjustment, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.sign, tc.adjType.Sign(), string(tc.adjType))
	}
}

func TestAdjustmentTypeTransactionType(t *testing.T) {
	cases := []struct {
		adjType AdjustmentType
		txType  TransactionType
	}{
		{AdjustRestock, TransactionIn},
		{AdjustReduce, TransactionOut},
		{AdjustDamage, TransactionOut},
		{AdjustReturn, TransactionReturn},
		{AdjustAdjustment, TransactionAdjustment},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.txType, tc.adjType.TransactionType(), string(tc.adjType))
	}
}
