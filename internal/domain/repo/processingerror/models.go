package processingerror

import "time"

// DeadLetter is the object written for every event the sync could not apply.
type DeadLetter struct {
	Writer   Writer    `json:"writer"`
	FailedAt time.Time `json:"failedAt"`
	Event    string    `json:"event,omitempty"`
	Origin   *Origin   `json:"origin,omitempty"`
	Inputs   []Input   `json:"inputs,omitempty"`
	Reason   Reason    `json:"reason"`
}

// Writer identifies the fleetsync instance that gave up on the event.
type Writer struct {
	Host     string `json:"host"`
	Version  string `json:"version"`
	Revision string `json:"revision"`
}

// Origin is where the raw event was received from.
type Origin struct {
	Channel    string    `json:"channel"`
	Topic      string    `json:"topic,omitempty"`
	Partition  int32     `json:"partition,omitempty"`
	Offset     int64     `json:"offset,omitempty"`
	Key        []byte    `json:"key,omitempty"`
	Raw        []byte    `json:"raw,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

type Input struct {
	Source string `json:"source,omitempty"`
	Key    string `json:"key"`
	Value  []byte `json:"value"`
}

type Reason struct {
	Category string `json:"category"`
	Error    string `json:"error"`
}
