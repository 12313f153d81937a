package broker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config is the broker's file-backed runtime configuration. It covers
// the settings that operators toggle without code changes: the
// meta-notification flags and the two exception policies.
type Config struct {
	Notify NotifyFlags `yaml:"notify"`

	// SubscriberPolicy and TransformerPolicy name a built-in exception
	// policy: "stop_and_log", "log_and_continue", "silent" or
	// "disabled". Empty leaves the current handler in place.
	SubscriberPolicy  string `yaml:"subscriber_policy"`
	TransformerPolicy string `yaml:"transformer_policy"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyConfig applies a loaded configuration to the broker. An unknown
// policy name is an error and nothing is applied.
func (b *Broker) ApplyConfig(cfg Config) error {
	sub, subSet, err := subscriberPolicy(cfg.SubscriberPolicy, b.logger)
	if err != nil {
		return err
	}
	tr, trSet, err := transformerPolicy(cfg.TransformerPolicy, b.logger)
	if err != nil {
		return err
	}

	b.SetFlagStates(cfg.Notify)
	if subSet {
		b.SetSubscriberExceptionHandler(sub)
	}
	if trSet {
		b.SetTransformerExceptionHandler(tr)
	}
	return nil
}

// WatchConfig loads the config file, applies it, then reapplies it on
// every change until the context is cancelled. Reload failures are
// logged and the previous configuration stays in effect.
func (b *Broker) WatchConfig(ctx context.Context, path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	if err := b.ApplyConfig(cfg); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors replace files
	// on save, which would drop a direct watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			cfg, err := LoadConfig(path)
			if err != nil {
				b.logger.Error("config reload failed", "path", path, "error", err)
				continue
			}
			if err := b.ApplyConfig(cfg); err != nil {
				b.logger.Error("config apply failed", "path", path, "error", err)
				continue
			}
			b.logger.Info("config reloaded", "path", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Error("config watcher error", "path", path, "error", err)
		}
	}
}

func subscriberPolicy(name string, logger *slog.Logger) (SubscriberExceptionHandler, bool, error) {
	switch name {
	case "":
		return nil, false, nil
	case "stop_and_log":
		return StopAndLogSubscriber(logger), true, nil
	case "log_and_continue":
		return LogAndContinueSubscriber(logger), true, nil
	case "silent":
		return SilentSubscriber(), true, nil
	case "disabled":
		return nil, true, nil
	}
	return nil, false, fmt.Errorf("unknown subscriber policy %q", name)
}

func transformerPolicy(name string, logger *slog.Logger) (TransformerExceptionHandler, bool, error) {
	switch name {
	case "":
		return nil, false, nil
	case "stop_and_log":
		return StopAndLogTransformer(logger), true, nil
	case "log_and_continue":
		return LogAndContinueTransformer(logger), true, nil
	case "silent":
		return SilentTransformer(), true, nil
	case "disabled":
		return nil, true, nil
	}
	return nil, false, fmt.Errorf("unknown transformer policy %q", name)
}
