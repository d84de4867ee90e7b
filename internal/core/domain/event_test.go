package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent(EventServicePayment, ServicePaymentAttrs{
		Student:       "0x1111111111111111111111111111111111111111",
		Provider:      "0x3333333333333333333333333333333333333333",
		Amount:        250,
		Fee:           2,
		ProviderShare: 248,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, evt.ID)
	assert.Equal(t, EventServicePayment, evt.Type)
	assert.WithinDuration(t, time.Now().UTC(), evt.CreatedAt, time.Second)

	var attrs ServicePaymentAttrs
	require.NoError(t, json.Unmarshal(evt.Attributes, &attrs))
	assert.Equal(t, int64(250), attrs.Amount)
	assert.Equal(t, attrs.Amount, attrs.Fee+attrs.ProviderShare)
}

func TestNewEvent_UnmarshalableAttributes(t *testing.T) {
	_, err := NewEvent(EventTransfer, make(chan int))
	assert.Error(t, err)
}

func TestTransferAttrs_SpenderOmittedWhenEmpty(t *testing.T) {
	evt, err := NewEvent(EventTransfer, TransferAttrs{
		From:   "0x1111111111111111111111111111111111111111",
		To:     "0x2222222222222222222222222222222222222222",
		Amount: 100,
	})
	require.NoError(t, err)
	assert.NotContains(t, string(evt.Attributes), "spender")
}
