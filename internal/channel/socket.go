package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/fleetsync/fleetsync/internal/config"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

const (
	DefaultReconnectDelay    = 5 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second

	// Largest frame accepted from the server, a full cluster payload fits comfortably.
	maxFrameSize = 4 << 20

	protocolVersion = "2.0.0"
	phoenixTopic    = "phoenix"

	eventJoin      = "phx_join"
	eventReply     = "phx_reply"
	eventError     = "phx_error"
	eventClose     = "phx_close"
	eventHeartbeat = "heartbeat"
)

var (
	ErrInvalidURL    = errors.New("invalid socket url")
	ErrChannelClosed = errors.New("channel closed by the server")
	ErrMalformed     = errors.New("malformed frame")
)

// Socket is a Phoenix channels client. It joins every topic and hands the pushed events to the processing.
// A lost connection is dialed again after the reconnect delay and every topic is joined again.
type Socket struct {
	url    string
	topics []string

	dialer            *websocket.Dialer
	clock             clockwork.Clock
	reconnectDelay    time.Duration
	heartbeatInterval time.Duration

	processing      pipeline.Processing[entity.Event]
	errorProcessing pipeline.ErrorProcessing

	logger *logr.Logger
}

func NewSocket(conf config.Channel, topics []string, clock clockwork.Clock, processing pipeline.Processing[entity.Event], errorProcessing pipeline.ErrorProcessing) (*Socket, error) {
	endpoint, err := socketURL(conf)
	if err != nil {
		return nil, err
	}

	ret := &Socket{
		url:               endpoint,
		topics:            topics,
		dialer:            websocket.DefaultDialer,
		clock:             clock,
		reconnectDelay:    conf.ReconnectDelay,
		heartbeatInterval: conf.HeartbeatInterval,
		processing:        processing,
		errorProcessing:   errorProcessing,
	}

	if ret.reconnectDelay <= 0 {
		ret.reconnectDelay = DefaultReconnectDelay
	}

	if ret.heartbeatInterval <= 0 {
		ret.heartbeatInterval = DefaultHeartbeatInterval
	}

	return ret, nil
}

func (s *Socket) WithLogger(logger logr.Logger) *Socket {
	s.logger = &logger

	return s
}

func (s *Socket) WithDialer(dialer *websocket.Dialer) *Socket {
	s.dialer = dialer

	return s
}

// Start consumes the socket until ctx is done.
func (s *Socket) Start(ctx context.Context) error {
	for {
		err := s.session(ctx)
		if ctx.Err() != nil {
			s.logInfo(0, "Context expired")

			return ctx.Err()
		}

		s.logError(err, "Socket disconnected", "retryIn", s.reconnectDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.reconnectDelay):
		}
	}
}

// session runs one connection, from the dial to the first read failure.
func (s *Socket) session(ctx context.Context) error {
	ws, resp, err := s.dialer.DialContext(ctx, s.url, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	if err != nil {
		return fmt.Errorf("failed to dial socket: %w", err)
	}

	defer ws.Close()

	ws.SetReadLimit(maxFrameSize)

	s.logInfo(0, "Socket connected", "topics", s.topics)

	conn := &connection{conn: ws}

	for _, topic := range s.topics {
		ref := uuid.NewString()

		err = conn.write(frame{JoinRef: &ref, Ref: &ref, Topic: topic, Event: eventJoin, Payload: json.RawMessage("{}")})
		if err != nil {
			return fmt.Errorf("failed to join %s: %w", topic, err)
		}
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.heartbeat(sessionCtx, conn)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read socket: %w", err)
		}

		err = s.handle(ctx, data)
		if err != nil {
			return err
		}
	}
}

func (s *Socket) heartbeat(ctx context.Context, conn *connection) {
	ticker := s.clock.NewTicker(s.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Unblocks the read loop
			conn.close()

			return
		case <-ticker.Chan():
			ref := uuid.NewString()

			err := conn.write(frame{Ref: &ref, Topic: phoenixTopic, Event: eventHeartbeat, Payload: json.RawMessage("{}")})
			if err != nil {
				s.logError(err, "Heartbeat failed")
				conn.close()

				return
			}
		}
	}
}

// handle returns an error only when the connection must be dropped.
func (s *Socket) handle(ctx context.Context, data []byte) error {
	var msg frame

	source := pipeline.Source{
		Channel:    pipeline.ChannelWebsocket,
		Value:      data,
		ReceivedAt: s.clock.Now(),
	}

	err := json.Unmarshal(data, &msg)
	if err != nil {
		s.processError(ctx, source, pipeline.NewErrProcessingError(err, pipeline.UnmarshalErrorCategory, nil))

		return nil
	}

	source.Topic = msg.Topic

	switch msg.Event {
	case eventReply:
		s.reply(msg)

		return nil
	case eventError, eventClose:
		if msg.Topic == phoenixTopic {
			return nil
		}

		return fmt.Errorf("%w: %s", ErrChannelClosed, msg.Topic)
	}

	payload := map[string]interface{}{}

	if len(msg.Payload) > 0 {
		err = json.Unmarshal(msg.Payload, &payload)
		if err != nil {
			s.processError(ctx, source, pipeline.NewErrProcessingError(err, pipeline.UnmarshalErrorCategory, nil))

			return nil
		}
	}

	s.logInfo(3, "Event received", "topic", msg.Topic, "event", msg.Event)

	err = s.processing.Process(pipeline.ContextWithSource(ctx, source), entity.Event{Name: msg.Event, Payload: payload})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.processError(ctx, source, err)
	}

	return nil
}

func (s *Socket) reply(msg frame) {
	var body struct {
		Status   string                 `json:"status"`
		Response map[string]interface{} `json:"response"`
	}

	err := json.Unmarshal(msg.Payload, &body)
	if err != nil || body.Status == "ok" {
		return
	}

	s.logError(fmt.Errorf("%w: %s", ErrChannelClosed, body.Status), "Join or push rejected", "topic", msg.Topic, "response", body.Response)
}

func (s *Socket) processError(ctx context.Context, source pipeline.Source, err error) {
	processingError := pipeline.AsProcessingError(err)
	if processingError.Source == nil {
		processingError = processingError.WithSource(source)
	}

	err = s.errorProcessing.Process(ctx, processingError)
	if err != nil {
		s.logError(err, "Error pipeline failed", "topic", source.Topic)
	}
}

func (s *Socket) logInfo(level int, msg string, keysAndValues ...any) {
	if s.logger == nil {
		return
	}

	s.logger.V(level).Info(msg, keysAndValues...)
}

func (s *Socket) logError(err error, msg string, keysAndValues ...any) {
	if s.logger == nil {
		return
	}

	s.logger.Error(err, msg, keysAndValues...)
}

// connection serializes the writes of the read loop and the heartbeat.
type connection struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *connection) write(msg frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(msg)
}

func (c *connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.Close()
}

// frame is a Phoenix v2 message: [join_ref, ref, topic, event, payload].
type frame struct {
	JoinRef *string
	Ref     *string
	Topic   string
	Event   string
	Payload json.RawMessage
}

func (f frame) MarshalJSON() ([]byte, error) {
	payload := f.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	return json.Marshal([]interface{}{f.JoinRef, f.Ref, f.Topic, f.Event, payload})
}

func (f *frame) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage

	err := json.Unmarshal(data, &parts)
	if err != nil {
		return err
	}

	if len(parts) != 5 {
		return fmt.Errorf("%w: %d elements", ErrMalformed, len(parts))
	}

	targets := []interface{}{&f.JoinRef, &f.Ref, &f.Topic, &f.Event}
	for i, target := range targets {
		err = json.Unmarshal(parts[i], target)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	f.Payload = parts[4]

	return nil
}

func socketURL(conf config.Channel) (string, error) {
	u, err := url.Parse(conf.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	query := u.Query()
	query.Set("vsn", protocolVersion)

	if conf.Token != "" {
		query.Set("access_token", string(conf.Token))
	}

	u.RawQuery = query.Encode()

	return u.String(), nil
}
