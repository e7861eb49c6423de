package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	body, err := json.Marshal(OrderAcceptedPayload{
		OrderID:      7,
		UserID:       1,
		MealID:       42,
		Qty:          2,
		AmountCents:  2800,
		BalanceCents: 200,
	})
	require.NoError(t, err)

	env := Envelope{
		EventID:   "b3f1c0de-0000-0000-0000-000000000000",
		EventType: TopicOrderAccepted,
		Producer:  "mealvault",
		Payload:   body,
	}
	value, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(value, &decoded))
	assert.Equal(t, TopicOrderAccepted, decoded.EventType)

	var payload OrderAcceptedPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.Equal(t, 7, payload.OrderID)
	assert.Equal(t, int64(2800), payload.AmountCents)
}

func TestMealLifecyclePayload_OmitsZeroOrders(t *testing.T) {
	body, err := json.Marshal(MealLifecyclePayload{
		MealID:     42,
		FromStatus: "published",
		ToStatus:   "locked",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "affected_orders")
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}

	p.Publish(context.Background(), TopicMealLifecycle, "42", MealLifecyclePayload{MealID: 42})
	assert.NoError(t, p.Close())
}
