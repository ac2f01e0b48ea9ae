package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/config"
)

// CreateValkeyClient accepts either a host:port address or a redis:// url.
func CreateValkeyClient(ctx context.Context, conf config.Valkey) (valkey.Client, common.CloseFunc, error) {
	option, err := valkeyOption(conf)
	if err != nil {
		return nil, nil, err
	}

	ret, err := valkey.NewClient(option)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ping := ret.B().Ping().Build()

	err = ret.Do(ctx, ping).Error()
	if err != nil {
		ret.Close()

		return nil, nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	shutdown := func(context.Context) error {
		ret.Close()

		return nil
	}

	return ret, shutdown, nil
}

func valkeyOption(conf config.Valkey) (valkey.ClientOption, error) {
	option := valkey.ClientOption{InitAddress: []string{conf.URL}}

	if strings.Contains(conf.URL, "://") {
		var err error

		option, err = valkey.ParseURL(conf.URL)
		if err != nil {
			return option, fmt.Errorf("failed to parse valkey url: %w", err)
		}
	}

	if conf.Creds.Password != "" {
		option.Password = conf.Creds.Password
	}

	return option, nil
}
