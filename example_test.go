package broker_test

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dshills/broker"
	"github.com/dshills/broker/namespace"
)

func Example() {
	b := broker.New(broker.WithLogger(slog.New(slog.DiscardHandler)))

	b.Subscribe("system.alert", func(ctx context.Context, args broker.Args) error {
		fmt.Println("page on-call:", args["message"])
		return nil
	}, broker.WithPriority(10))

	b.Subscribe("system.*", func(ctx context.Context, args broker.Args) error {
		fmt.Println("audit log:", args["message"])
		return nil
	}, broker.WithPriority(1))

	b.Emit("system.alert", broker.Args{"message": "disk full"})

	// Output:
	// page on-call: disk full
	// audit log: disk full
}

func Example_transformers() {
	b := broker.New(broker.WithLogger(slog.New(slog.DiscardHandler)))

	// Drop events below the subtree's severity floor.
	b.AddTransformer("metrics.*", func(ns namespace.Path, args broker.Args) (broker.Args, error) {
		if sev, _ := args["severity"].(int); sev < 3 {
			return nil, nil
		}
		return args, nil
	})

	b.Subscribe("metrics.cpu", func(ctx context.Context, args broker.Args) error {
		fmt.Println("recorded severity", args["severity"])
		return nil
	})

	status, _ := b.Emit("metrics.cpu", broker.Args{"severity": 1})
	fmt.Println("first emission:", status)

	status, _ = b.Emit("metrics.cpu", broker.Args{"severity": 5})
	fmt.Println("second emission:", status)

	// Output:
	// first emission: blocked
	// recorded severity 5
	// second emission: delivered
}
