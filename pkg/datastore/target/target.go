package target

import (
	"context"
	"fmt"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/target/dummy"
	"github.com/sdcio/fea-server/pkg/datastore/target/netlink"
	"github.com/sdcio/fea-server/pkg/datastore/target/types"
)

// New returns the plugins of the configured backend mechanism.
func New(ctx context.Context, cfg *config.BackendConfig) (*types.Backend, error) {
	switch cfg.Type {
	case config.BackendTypeDummy, "":
		b, _, err := dummy.New(ctx, cfg.DummyOptions)
		return b, err
	case config.BackendTypeNetlink:
		return netlink.New(ctx, cfg.NetlinkOptions)
	}
	return nil, fmt.Errorf("unknown backend type %q", cfg.Type)
}
