package notify

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), EventOrderPlaced, OrderPlaced{OrderID: 1}))
	assert.NoError(t, p.Close())
}

func TestTokenEventOmitsMissingOrder(t *testing.T) {
	raw, err := json.Marshal(TokenStatusChanged{TokenID: 4, Status: "free", Colour: "Gray"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token_id":4,"status":"free","colour":"Gray"}`, string(raw))
}

// TestAMQPPublisher needs a broker; set AMQP_TEST_URL to run it.
func TestAMQPPublisher(t *testing.T) {
	url := os.Getenv("AMQP_TEST_URL")
	if url == "" {
		t.Skip("AMQP_TEST_URL not set")
	}
	const exchange = "canteen_events_test"

	pub, err := DialAMQP(url, exchange)
	require.NoError(t, err)
	defer pub.Close()
	require.NoError(t, pub.Ping())

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "order.*", exchange, false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	event := OrderPlaced{OrderID: 9, RegNo: "S1", TokenID: 2, TotalAmount: decimal.NewFromInt(40), Items: 1}
	require.NoError(t, pub.Publish(context.Background(), EventOrderPlaced, event))

	select {
	case d := <-deliveries:
		assert.Equal(t, EventOrderPlaced, d.Type)
		assert.Equal(t, "application/json", d.ContentType)
		assert.NotEmpty(t, d.MessageId)
		var got OrderPlaced
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, uint(9), got.OrderID)
		assert.True(t, got.TotalAmount.Equal(event.TotalAmount))
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
}
