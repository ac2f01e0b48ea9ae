package factory

import (
	"fmt"

	"github.com/fleetsync/fleetsync/internal/api"
	"github.com/fleetsync/fleetsync/internal/config"
	"github.com/fleetsync/fleetsync/internal/log"
)

func CreateAPIClient(conf config.API, retryConf config.Retry) (*api.Client, error) {
	ret, err := api.NewClient(conf, retryConf)
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	return ret.WithLogger(log.Component("api")), nil
}
