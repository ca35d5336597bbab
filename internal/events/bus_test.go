package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan SettingsChangedEvent, 1)

	unsub := bus.Subscribe(func(e SettingsChangedEvent) {
		received <- e
	})
	defer unsub()

	event := SettingsChangedEvent{
		Keys:      []string{"NVENC.RateControl.Mode"},
		Source:    "api",
		Timestamp: "2026-08-25T10:30:00Z",
	}
	bus.Publish(event)

	select {
	case got := <-received:
		if got.Source != event.Source || len(got.Keys) != 1 {
			t.Errorf("expected %+v, got %+v", event, got)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()
	received1 := make(chan SessionStateChangedEvent, 1)
	received2 := make(chan SessionStateChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e SessionStateChangedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e SessionStateChangedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(SessionStateChangedEvent{Variant: "h264_nvenc", State: "running"})

	for i, ch := range []chan SessionStateChangedEvent{received1, received2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive the event", i+1)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan MetricsUpdatedEvent, 1)

	unsub := bus.Subscribe(func(e MetricsUpdatedEvent) {
		received <- e
	})
	unsub()

	bus.Publish(MetricsUpdatedEvent{Frame: 100})

	select {
	case <-received:
		t.Error("event delivered after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_UnknownHandlerIsNoOp(_ *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(s string) { _ = s })
	unsub()
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 1)

	unsub := SubscribeToChannel[DiagnosticsReadyEvent](bus, ch)
	defer unsub()

	bus.Publish(DiagnosticsReadyEvent{Variant: "h264_nvenc", Lines: []string{"line"}})

	select {
	case raw := <-ch:
		if _, ok := raw.(DiagnosticsReadyEvent); !ok {
			t.Errorf("unexpected channel payload %T", raw)
		}
	case <-time.After(time.Second):
		t.Fatal("event not bridged to channel")
	}
}

func TestEventJSONShape(t *testing.T) {
	data, err := json.Marshal(SettingsChangedEvent{
		Keys:   []string{"NVENC.Preset"},
		Source: "reset",
	})
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["source"] != "reset" {
		t.Errorf("json field names changed: %s", data)
	}
}
