package broker

import "log/slog"

// Option configures a Broker.
type Option func(*brokerConfig)

// brokerConfig contains construction-time configuration for a Broker.
type brokerConfig struct {
	logger             *slog.Logger
	subscriberHandler  SubscriberExceptionHandler
	transformerHandler TransformerExceptionHandler
	subscriberSet      bool
	transformerSet     bool
	flags              NotifyFlags
}

// defaultBrokerConfig returns the default broker configuration.
// Exception handling defaults to stop-and-log on both slots.
func defaultBrokerConfig() brokerConfig {
	return brokerConfig{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used by the broker and by the default
// exception handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(c *brokerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSubscriberExceptionHandler sets the initial subscriber exception
// handler. Pass nil to disable the policy so subscriber errors
// propagate to emit call sites.
func WithSubscriberExceptionHandler(h SubscriberExceptionHandler) Option {
	return func(c *brokerConfig) {
		c.subscriberHandler = h
		c.subscriberSet = true
	}
}

// WithTransformerExceptionHandler sets the initial transformer
// exception handler. Pass nil to disable the policy so transformer
// errors propagate to emit call sites.
func WithTransformerExceptionHandler(h TransformerExceptionHandler) Option {
	return func(c *brokerConfig) {
		c.transformerHandler = h
		c.transformerSet = true
	}
}

// WithNotifyFlags sets the initial meta-notification flags.
func WithNotifyFlags(flags NotifyFlags) Option {
	return func(c *brokerConfig) {
		c.flags = flags
	}
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeConfig)

// subscribeConfig contains configuration for a single subscription.
type subscribeConfig struct {
	priority int
	async    bool
	argNames []string
	name     string
	attach   func(retire func())
}

// WithPriority sets the delivery priority. Higher priorities are
// delivered before lower ones; ties break by registration order.
func WithPriority(priority int) SubscribeOption {
	return func(c *subscribeConfig) {
		c.priority = priority
	}
}

// WithAsync marks the callback as asynchronous. Async subscribers are
// skipped by Emit and delivered sequentially by EmitAsync.
func WithAsync() SubscribeOption {
	return func(c *subscribeConfig) {
		c.async = true
	}
}

// WithArgs declares the exact argument names the callback expects,
// making the subscriber non-flexible: the first such subscriber on a
// namespace sets its signature record, and later non-flexible
// subscribers and every emission must match it. Subscribers registered
// without WithArgs are flexible and exempt from signature checking.
func WithArgs(names ...string) SubscribeOption {
	return func(c *subscribeConfig) {
		if names == nil {
			names = []string{}
		}
		c.argNames = names
	}
}

// WithName sets a display name used in logs, exception records and
// registry exports.
func WithName(name string) SubscribeOption {
	return func(c *subscribeConfig) {
		c.name = name
	}
}

// TransformOption configures a transformation.
type TransformOption func(*transformConfig)

// transformConfig contains configuration for a single transformation.
type transformConfig struct {
	priority int
	name     string
	attach   func(retire func())
}

// WithTransformPriority sets the pipeline priority. Higher priorities
// run before lower ones; ties break by registration order.
func WithTransformPriority(priority int) TransformOption {
	return func(c *transformConfig) {
		c.priority = priority
	}
}

// WithTransformName sets a display name used in logs, exception
// records and registry exports.
func WithTransformName(name string) TransformOption {
	return func(c *transformConfig) {
		c.name = name
	}
}
