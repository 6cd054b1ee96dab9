//go:build !linux

package netlink

import (
	"context"
	"errors"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/target/types"
)

func New(_ context.Context, _ *config.BackendNetlinkOptions) (*types.Backend, error) {
	return nil, errors.New("netlink backend is only available on linux")
}
