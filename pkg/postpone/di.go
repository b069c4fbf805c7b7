package postpone

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"
)

// DIParams holds dependencies needed to create a Postpone instance via DI.
type DIParams struct {
	dig.In

	Logger *zap.Logger
	Config *Config `optional:"true"`
}

// ProvidePostpone creates a Postpone instance for dependency injection.
// Use this when integrating Postpone into an app that uses uber-go/dig.
//
// Example:
//
//	container := dig.New()
//	container.Provide(postpone.ProvidePostpone)
//	container.Invoke(func(p *postpone.Postpone) {
//	    p.Start(ctx)
//	})
func ProvidePostpone(params DIParams) (*Postpone, error) {
	cfg := params.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Use the provided logger
	cfg.Logger = params.Logger

	return New(cfg)
}

// RegisterWithContainer registers Postpone with a dig container.
func RegisterWithContainer(container *dig.Container) error {
	return container.Provide(ProvidePostpone)
}

// StartParams holds dependencies for starting Postpone via DI.
type StartParams struct {
	dig.In

	Postpone *Postpone
	Context  context.Context `optional:"true"`
}

// StartPostpone is a lifecycle hook that starts Postpone when invoked via DI.
//
// Example:
//
//	container.Invoke(postpone.StartPostpone)
func StartPostpone(params StartParams) error {
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return params.Postpone.Start(ctx)
}
