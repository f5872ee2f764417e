package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fab/internal/core/ports"
)

// HashersNodeID is the unique identifier for the hasher factory Graft node.
const HashersNodeID graft.ID = "adapter.fs.hashers"

func init() {
	graft.Register(graft.Node[ports.HasherFactory]{
		ID:        HashersNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.HasherFactory, error) {
			return NewHashers(), nil
		},
	})
}
