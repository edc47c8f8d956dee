package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/Foodgram/internal/logger"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
)

type recordingAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *recordingAcknowledger) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *recordingAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *recordingAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func TestHandleDelivery(t *testing.T) {
	okHandler := func(context.Context, payloads.ImageCleanupPayload) error { return nil }
	failHandler := func(context.Context, payloads.ImageCleanupPayload) error { return errors.New("s3 down") }
	valid := []byte(`{"object_key":"recipes/a.png","recipe_id":7,"reason":"deleted"}`)

	tests := []struct {
		name        string
		body        []byte
		redelivered bool
		handler     func(context.Context, payloads.ImageCleanupPayload) error
		wantAck     bool
		wantRequeue bool
	}{
		{name: "processed", body: valid, handler: okHandler, wantAck: true},
		{name: "malformed json", body: []byte("{"), handler: okHandler},
		{name: "missing key", body: []byte(`{"reason":"deleted"}`), handler: okHandler},
		{name: "first failure requeued", body: valid, handler: failHandler, wantRequeue: true},
		{name: "second failure dropped", body: valid, redelivered: true, handler: failHandler},
	}

	c := &Client{logger: logger.Discard()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &recordingAcknowledger{}
			msg := amqp.Delivery{Acknowledger: ack, Body: tt.body, Redelivered: tt.redelivered}

			c.handleDelivery(context.Background(), msg, tt.handler)

			if ack.acked != tt.wantAck || ack.nacked == tt.wantAck {
				t.Errorf("acked = %v, nacked = %v; want ack %v", ack.acked, ack.nacked, tt.wantAck)
			}
			if ack.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", ack.requeue, tt.wantRequeue)
			}
		})
	}
}

func TestHandleDeliveryPassesPayload(t *testing.T) {
	c := &Client{logger: logger.Discard()}
	var got payloads.ImageCleanupPayload
	msg := amqp.Delivery{
		Acknowledger: &recordingAcknowledger{},
		Body:         []byte(`{"object_key":"recipes/b.webp","recipe_id":3,"reason":"replaced"}`),
	}

	c.handleDelivery(context.Background(), msg, func(_ context.Context, p payloads.ImageCleanupPayload) error {
		got = p
		return nil
	})

	want := payloads.ImageCleanupPayload{ObjectKey: "recipes/b.webp", RecipeID: 3, Reason: payloads.CleanupReasonReplaced}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}

func TestConsumeStopsWhenDeliveriesClose(t *testing.T) {
	c := &Client{logger: logger.Discard()}
	msgs := make(chan amqp.Delivery, 1)
	done := make(chan struct{})
	var handled int

	msgs <- amqp.Delivery{
		Acknowledger: &recordingAcknowledger{},
		Body:         []byte(`{"object_key":"recipes/c.png","reason":"deleted"}`),
	}
	close(msgs)

	go c.consume(context.Background(), msgs, func(context.Context, payloads.ImageCleanupPayload) error {
		handled++
		return nil
	}, done)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after the delivery channel closed")
	}
	if handled != 1 {
		t.Errorf("handled = %d, want 1", handled)
	}
}

func TestConsumeStopsOnCancel(t *testing.T) {
	c := &Client{logger: logger.Discard()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go c.consume(ctx, make(chan amqp.Delivery), func(context.Context, payloads.ImageCleanupPayload) error {
		return nil
	}, done)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
