package broker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/broker/namespace"
)

// Ready-made exception policies. Each constructor returns a handler
// implementing one of the common strategies; install them at
// construction time with WithSubscriberExceptionHandler and
// WithTransformerExceptionHandler, or swap them later with the
// corresponding setters.

// StopAndLogSubscriber logs the failure and halts the remaining
// deliveries of the emission. This is the broker's default subscriber
// policy.
func StopAndLogSubscriber(logger *slog.Logger) SubscriberExceptionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(sub *Subscription, ns namespace.Path, err error) Decision {
		logger.Error("subscriber failed",
			"subscriber", sub.label(),
			"pattern", sub.Pattern().String(),
			"namespace", ns.String(),
			"error", err)
		return Stop
	}
}

// StopAndLogTransformer logs the failure and halts the emission as if
// it had been blocked. This is the broker's default transformer policy.
func StopAndLogTransformer(logger *slog.Logger) TransformerExceptionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(tr *Transformation, ns namespace.Path, err error) Decision {
		logger.Error("transformer failed",
			"transformer", tr.label(),
			"pattern", tr.Pattern().String(),
			"namespace", ns.String(),
			"error", err)
		return Stop
	}
}

// LogAndContinueSubscriber logs the failure and moves on to the next
// subscriber.
func LogAndContinueSubscriber(logger *slog.Logger) SubscriberExceptionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(sub *Subscription, ns namespace.Path, err error) Decision {
		logger.Warn("subscriber failed, continuing",
			"subscriber", sub.label(),
			"pattern", sub.Pattern().String(),
			"namespace", ns.String(),
			"error", err)
		return Continue
	}
}

// LogAndContinueTransformer logs the failure, skips the failed
// transformer and keeps the pipeline running.
func LogAndContinueTransformer(logger *slog.Logger) TransformerExceptionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(tr *Transformation, ns namespace.Path, err error) Decision {
		logger.Warn("transformer failed, continuing",
			"transformer", tr.label(),
			"pattern", tr.Pattern().String(),
			"namespace", ns.String(),
			"error", err)
		return Continue
	}
}

// SilentSubscriber swallows the failure and continues delivery.
func SilentSubscriber() SubscriberExceptionHandler {
	return func(*Subscription, namespace.Path, error) Decision {
		return Continue
	}
}

// SilentTransformer swallows the failure and keeps the pipeline
// running.
func SilentTransformer() TransformerExceptionHandler {
	return func(*Transformation, namespace.Path, error) Decision {
		return Continue
	}
}

// ExceptionRecord captures one handled failure for later inspection.
type ExceptionRecord struct {
	Time      time.Time
	Source    string // display label of the failed entry
	Pattern   namespace.Path
	Namespace namespace.Path
	Err       error
}

// ExceptionCollector accumulates handled failures while delegating the
// continue/stop decision to a wrapped policy. It is safe for concurrent
// use.
type ExceptionCollector struct {
	mu      sync.Mutex
	records []ExceptionRecord
}

// NewExceptionCollector creates an empty collector.
func NewExceptionCollector() *ExceptionCollector {
	return &ExceptionCollector{}
}

// SubscriberHandler returns a handler that records each failure and
// then defers to next for the decision. A nil next continues.
func (c *ExceptionCollector) SubscriberHandler(next SubscriberExceptionHandler) SubscriberExceptionHandler {
	return func(sub *Subscription, ns namespace.Path, err error) Decision {
		c.record(sub.label(), sub.Pattern(), ns, err)
		if next == nil {
			return Continue
		}
		return next(sub, ns, err)
	}
}

// TransformerHandler returns a handler that records each failure and
// then defers to next for the decision. A nil next continues.
func (c *ExceptionCollector) TransformerHandler(next TransformerExceptionHandler) TransformerExceptionHandler {
	return func(tr *Transformation, ns namespace.Path, err error) Decision {
		c.record(tr.label(), tr.Pattern(), ns, err)
		if next == nil {
			return Continue
		}
		return next(tr, ns, err)
	}
}

func (c *ExceptionCollector) record(source string, pattern, ns namespace.Path, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, ExceptionRecord{
		Time:      time.Now(),
		Source:    source,
		Pattern:   pattern,
		Namespace: ns,
		Err:       err,
	})
}

// Records returns a snapshot of the collected failures in order.
func (c *ExceptionCollector) Records() []ExceptionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ExceptionRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of collected failures.
func (c *ExceptionCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Clear discards the collected failures.
func (c *ExceptionCollector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}
