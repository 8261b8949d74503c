package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type countingHandler struct {
	topic    string
	calls    int
	failures int
	last     []byte
}

func (h *countingHandler) Topic() string { return h.topic }

func (h *countingHandler) Handle(_ context.Context, data []byte) error {
	h.calls++
	h.last = data
	if h.calls <= h.failures {
		return fmt.Errorf("transient failure %d", h.calls)
	}
	return nil
}

func newWorkerConsumer(t *testing.T, opts ...ConsumerOption) *Consumer {
	t.Helper()
	base := []ConsumerOption{
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(1, time.Millisecond, 2*time.Millisecond),
	}
	c, err := NewConsumer(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConsumer: %v", err)
	}
	return c
}

// runWorker feeds one message through the worker pool path and waits
// for the worker to drain.
func runWorker(c *Consumer, topic string, data []byte) {
	c.wg.Add(1)
	go c.messageWorker()
	c.msgChan <- &message{topic: topic, data: data, km: kafka.Message{Topic: topic, Partition: 0}}
	close(c.msgChan)
	c.wg.Wait()
}

func TestHookFuncsAroundHandle(t *testing.T) {
	c := newWorkerConsumer(t)
	h := &countingHandler{topic: "bars"}
	c.RegisterHandler(h)

	var before, after int
	var afterErr error
	c.WithConsumerHook(HookFuncs{
		Before: func(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
			before++
			return ctx, km, append([]byte("x"), data...), nil
		},
		After: func(_ context.Context, _ string, _ kafka.Message, _ []byte, err error) {
			after++
			afterErr = err
		},
	})

	runWorker(c, "bars", []byte("payload"))

	if h.calls != 1 {
		t.Fatalf("handler called %d times", h.calls)
	}
	if string(h.last) != "xpayload" {
		t.Fatalf("BeforeHandle mutation not delivered, got %q", h.last)
	}
	if before != 1 || after != 1 || afterErr != nil {
		t.Fatalf("hook counts before=%d after=%d err=%v", before, after, afterErr)
	}
}

func TestHookBeforeErrorSkipsHandler(t *testing.T) {
	c := newWorkerConsumer(t)
	h := &countingHandler{topic: "bars"}
	c.RegisterHandler(h)

	var got error
	c.WithConsumerHook(HookFuncs{
		Before: func(ctx context.Context, _ string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
			return ctx, km, data, &HookError{Code: "ERR_DECODE", Err: fmt.Errorf("bad frame")}
		},
		Err: func(_ context.Context, _ string, _ kafka.Message, _ []byte, err error) {
			got = err
		},
	})

	runWorker(c, "bars", []byte("junk"))

	if h.calls != 0 {
		t.Fatalf("handler should be skipped, called %d times", h.calls)
	}
	var hookErr *HookError
	if !errors.As(got, &hookErr) || hookErr.Code != "ERR_DECODE" {
		t.Fatalf("expected HookError ERR_DECODE, got %v", got)
	}
}

func TestHookOnErrorDuringRetries(t *testing.T) {
	c := newWorkerConsumer(t)
	h := &countingHandler{topic: "bars", failures: 10}
	c.RegisterHandler(h)

	topics := make(map[string]int)
	c.WithConsumerHook(MetricsHook(func(topic string) { topics[topic]++ }))

	runWorker(c, "bars", []byte("payload"))

	// RetryMax 1: initial attempt plus one retry.
	if h.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", h.calls)
	}
	if topics["bars"] == 0 {
		t.Fatal("MetricsHook never saw the failure")
	}
}

func TestHookErrorString(t *testing.T) {
	e := &HookError{Code: "ERR_VALIDATION", Err: fmt.Errorf("missing symbol")}
	if e.Error() != "ERR_VALIDATION: missing symbol" {
		t.Fatalf("got %q", e.Error())
	}
	if !errors.Is(e, e.Err) {
		t.Fatal("Unwrap should expose the inner error")
	}
}
