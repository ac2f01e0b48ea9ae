package event

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid payload")
)

type decoder func(payload map[string]interface{}) (Event, error)

var decoders = map[Name]decoder{
	NameHostRegistered:       decodeAs[HostRegistered],
	NameHostDetailsUpdated:   decodeAs[HostDetailsUpdated],
	NameHeartbeatSucceded:    decodeAs[HeartbeatSucceded],
	NameHeartbeatFailed:      decodeAs[HeartbeatFailed],
	NameHostDeregistered:     decodeAs[HostDeregistered],
	NameHostRestored:         decodeAs[HostRestored],
	NameHostHealthChanged:    decodeAs[HostHealthChanged],
	NameSaptuneStatusUpdated: decodeAs[SaptuneStatusUpdated],

	NameClusterRegistered:            decodeAs[ClusterRegistered],
	NameClusterDetailsUpdated:        decodeAs[ClusterDetailsUpdated],
	NameChecksExecutionStarted:       decodeAs[ChecksExecutionStarted],
	NameChecksExecutionCompleted:     decodeAs[ChecksExecutionCompleted],
	NameChecksResultsUpdated:         decodeAs[ChecksResultsUpdated],
	NameClusterHealthChanged:         decodeAs[ClusterHealthChanged],
	NameClusterCibLastWrittenUpdated: decodeAs[ClusterCibLastWrittenUpdated],
	NameClusterDeregistered:          decodeAs[ClusterDeregistered],
	NameClusterRestored:              decodeAs[ClusterRestored],

	NameSAPSystemRegistered:                decodeAs[SAPSystemRegistered],
	NameSAPSystemHealthChanged:             decodeAs[SAPSystemHealthChanged],
	NameSAPSystemDeregistered:              decodeAs[SAPSystemDeregistered],
	NameSAPSystemRestored:                  decodeAs[SAPSystemRestored],
	NameSAPSystemUpdated:                   decodeAs[SAPSystemUpdated],
	NameApplicationInstanceRegistered:      decodeAs[ApplicationInstanceRegistered],
	NameApplicationInstanceMoved:           decodeAs[ApplicationInstanceMoved],
	NameApplicationInstanceAbsentAtChanged: decodeAs[ApplicationInstanceAbsentAtChanged],
	NameApplicationInstanceDeregistered:    decodeAs[ApplicationInstanceDeregistered],
	NameApplicationInstanceHealthChanged:   decodeAs[ApplicationInstanceHealthChanged],

	NameDatabaseRegistered:                       decodeAs[DatabaseRegistered],
	NameDatabaseDeregistered:                     decodeAs[DatabaseDeregistered],
	NameDatabaseRestored:                         decodeAs[DatabaseRestored],
	NameDatabaseHealthChanged:                    decodeAs[DatabaseHealthChanged],
	NameDatabaseInstanceRegistered:               decodeAs[DatabaseInstanceRegistered],
	NameDatabaseInstanceAbsentAtChanged:          decodeAs[DatabaseInstanceAbsentAtChanged],
	NameDatabaseInstanceDeregistered:             decodeAs[DatabaseInstanceDeregistered],
	NameDatabaseInstanceHealthChanged:            decodeAs[DatabaseInstanceHealthChanged],
	NameDatabaseInstanceSystemReplicationChanged: decodeAs[DatabaseInstanceSystemReplicationChanged],

	NameExecutionStarted:   decodeAs[ExecutionStarted],
	NameExecutionCompleted: decodeAs[ExecutionCompleted],
}

// Decode turns a raw push event into its typed event.
func Decode(raw entity.Event) (Event, error) {
	decode, ok := decoders[Name(raw.Name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, raw.Name)
	}

	ret, err := decode(raw.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, raw.Name, err)
	}

	return ret, nil
}

// Known reports whether name is a push event this client handles.
func Known(name string) bool {
	_, ok := decoders[Name(name)]

	return ok
}

func decodeAs[T Event](payload map[string]interface{}) (Event, error) {
	var ret T

	decoder, err := newDecoder(&ret)
	if err != nil {
		return nil, err
	}

	err = decoder.Decode(payload)
	if err != nil {
		return nil, err
	}

	p, ok := any(&ret).(partial)
	if ok {
		p.setFields(payload)
	}

	return ret, nil
}

// newDecoder decodes json tagged payloads. Slices and maps of target are replaced, not merged.
func newDecoder(target interface{}) (*mapstructure.Decoder, error) {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           target,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return decoder, nil
}
