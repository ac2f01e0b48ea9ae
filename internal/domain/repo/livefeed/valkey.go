package livefeed

import (
	"context"
	"encoding/json"
	"errors"
	"syscall"

	"github.com/valkey-io/valkey-go"

	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

const (
	categoryInternalError     = "valkey_internal_error"
	categoryValkeyClientError = "valkey_client"
)

// ValkeyRepo keeps the newest entries of the live feed in a capped list.
type ValkeyRepo struct {
	client valkey.Client
	key    string
	size   int64
}

func NewValkeyRepo(client valkey.Client, key string, size int64) ValkeyRepo {
	return ValkeyRepo{
		client: client,
		key:    key,
		size:   size,
	}
}

func (r ValkeyRepo) WriteLiveFeedEntry(ctx context.Context, entry entity.LiveFeedEntry) error {
	data, err := json.Marshal(mapToModel(entry))
	if err != nil {
		return common.NewErrProcessingError(err, categoryInternalError, nil, "failed to marshal live feed entry")
	}

	// Push at the head then cap the list
	commands := valkey.Commands{
		r.client.B().Lpush().Key(r.key).Element(string(data)).Build(),
		r.client.B().Ltrim().Key(r.key).Start(0).Stop(r.size - 1).Build(),
	}

	for _, resp := range r.client.DoMulti(ctx, commands...) {
		err = resp.Error()
		if err != nil {
			return r.clientError(err, "failed to push live feed entry")
		}
	}

	return nil
}

func (r ValkeyRepo) GetLiveFeed(ctx context.Context) ([]entity.LiveFeedEntry, error) {
	command := r.client.B().Lrange().Key(r.key).Start(0).Stop(r.size - 1).Build()

	resp := r.client.Do(ctx, command)

	err := resp.Error()
	if err != nil {
		return nil, r.clientError(err, "failed to read live feed")
	}

	result, err := resp.AsStrSlice()
	if err != nil {
		return nil, common.NewErrProcessingError(err, categoryInternalError, nil, "unexpected lrange response type for %s", r.key)
	}

	ret := make([]entity.LiveFeedEntry, 0, len(result))

	for i, jsonEntry := range result {
		model := Entry{}

		err := json.Unmarshal([]byte(jsonEntry), &model)
		if err != nil {
			return nil, common.NewErrProcessingError(err, categoryInternalError, nil, "failed to unmarshal live feed entry %d", i)
		}

		ret = append(ret, mapToEntity(model))
	}

	return ret, nil
}

func (r ValkeyRepo) clientError(err error, reason string) error {
	if r.isRetryable(err) {
		return common.NewRetryableErrProcessingError(err, categoryValkeyClientError, nil, reason)
	}

	return common.NewErrProcessingError(err, categoryValkeyClientError, nil, reason)
}

func (r ValkeyRepo) isRetryable(err error) bool {
	// Network error
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// Valkey specific error
	vErr, isValkeyError := valkey.IsValkeyErr(err)
	if !isValkeyError {
		return false
	}

	return vErr.IsTryAgain()
}
