package runner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fab/internal/adapters/shell"
	"go.trai.ch/fab/internal/core/ports"
)

// NodeID is the unique identifier for the runner factory Graft node.
const NodeID graft.ID = "adapter.runner_factory"

func init() {
	graft.Register(graft.Node[ports.RunnerFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.RunnerFactory, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(executor), nil
		},
	})
}
