package e2e

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promdto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/config"
	"github.com/fleetsync/fleetsync/internal/engine"
	"github.com/fleetsync/fleetsync/internal/factory"
	"github.com/fleetsync/fleetsync/internal/store"
)

const (
	valkeyImage = "quay.io/sclorg/valkey-7-c10s:bf91acf0827dc5db216164aafe3d34beb245dcec"

	joinTimeout = 30 * time.Second

	ErrorMetricFamily     = "error_processing_error_total"
	ProcessedMetricFamily = "main_processed_events_total"
	UnchangedMetricFamily = "main_unchanged_events_total"
)

var ErrMetricNotFound = errors.New("metric not found")

type KeyValue struct {
	Key   string
	Value string
}

type TestConfig struct {
	Name        string
	FixturesDir string
	WithValkey  bool
}

// TestContext runs the whole sync process in memory against a fake monitoring server.
type TestContext struct {
	Config TestConfig

	server    *MonitoringServer
	valkey    testcontainers.Container
	valkeyURL string

	engine  *engine.Engine
	metrics *httptest.Server
	cancel  context.CancelFunc
	done    chan error
	closeFn common.CloseFunc
}

var random *rand.Rand

func init() {
	now := time.Now()

	random = rand.New(rand.NewSource(now.UnixMilli()))
}

func CreateTestConfig(test string) TestConfig {
	return TestConfig{
		Name:        fmt.Sprintf("%s-%x", test, random.Int31()),
		FixturesDir: "resources/api",
	}
}

func CreateTestContext(conf TestConfig) *TestContext {
	return &TestContext{Config: conf}
}

// Generic func

func (tc *TestContext) DeployAll(ctx context.Context) error {
	tc.server = NewMonitoringServer(tc.Config.FixturesDir)

	if tc.Config.WithValkey {
		err := tc.DeployValkey(ctx)
		if err != nil {
			return fmt.Errorf("failed to deploy valkey: %w", err)
		}
	}

	err := tc.DeployProcessing(ctx)
	if err != nil {
		return fmt.Errorf("failed to deploy processing: %w", err)
	}

	return nil
}

func (tc *TestContext) Shutdown(ctx context.Context) error {
	err := tc.DeleteProcessing(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete processing: %w", err)
	}

	tc.server.Close()

	if tc.valkey != nil {
		err = tc.valkey.Terminate(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete valkey: %w", err)
		}
	}

	return nil
}

// Processing func

// DeployProcessing starts the sync process and waits for its socket to join every topic.
func (tc *TestContext) DeployProcessing(ctx context.Context) error {
	registry := prometheus.NewRegistry()

	eng, ch, closeFn, err := factory.CreateEngine(ctx, tc.processingConfig(), registry)
	if err != nil {
		if closeFn != nil {
			_ = closeFn(ctx)
		}

		return fmt.Errorf("failed to create engine: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	tc.engine = eng
	tc.cancel = cancel
	tc.closeFn = closeFn
	tc.done = make(chan error, 1)
	tc.metrics = httptest.NewServer(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		tc.done <- eng.Connect(runCtx, ch)
	}()

	select {
	case <-tc.server.Joined():
		return nil
	case err := <-tc.done:
		return fmt.Errorf("processing stopped before joining: %w", err)
	case <-time.After(joinTimeout):
		return errors.New("processing did not join every topic in time")
	}
}

func (tc *TestContext) DeleteProcessing(ctx context.Context) error {
	if tc.cancel == nil {
		return nil
	}

	tc.cancel()
	tc.cancel = nil

	err := <-tc.done

	tc.metrics.Close()

	return errors.Join(err, tc.closeFn(ctx))
}

func (tc *TestContext) processingConfig() config.Config {
	return config.Config{
		GracefulDuration: 5 * time.Second,
		API: config.API{
			BaseURL:   tc.server.URL(),
			Token:     "s3cr3t",
			Timeout:   5 * time.Second,
			RateLimit: 100,
			Burst:     100,
		},
		Channel: config.Channel{
			Source:            config.ChannelSourceWebsocket,
			URL:               tc.server.SocketURL(),
			Token:             "s3cr3t",
			ReconnectDelay:    100 * time.Millisecond,
			HeartbeatInterval: 30 * time.Second,
		},
		Valkey: config.Valkey{
			URL:          tc.valkeyURL,
			LiveFeedKey:  "fleetsync:live_feed:" + tc.Config.Name,
			LiveFeedSize: 100,
		},
		Retry:         config.Retry{MaxAttempt: 2, Delay: 10 * time.Millisecond},
		Queue:         config.Queue{Size: 64},
		Cache:         config.Cache{Size: 16},
		HealthSummary: config.HealthSummary{Debounce: 100 * time.Millisecond},
		Catalog:       config.Catalog{Provider: "azure", TargetType: "cluster"},
	}
}

func (tc *TestContext) Engine() *engine.Engine {
	return tc.engine
}

func (tc *TestContext) State() store.State {
	return tc.engine.Store().State()
}

func (tc *TestContext) Executions() <-chan string {
	return tc.server.Executions()
}

// Valkey func

func (tc *TestContext) DeployValkey(ctx context.Context) error {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        valkeyImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections tcp"),
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start valkey: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to get valkey endpoint: %w", err)
	}

	tc.valkey = container
	tc.valkeyURL = endpoint

	return nil
}

// Socket func

// PushFile sends the content of path, a phoenix frame or anything else, on the socket.
func (tc *TestContext) PushFile(ctx context.Context, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	err = tc.server.Push(payload)
	if err != nil {
		return fmt.Errorf("failed to push msg: %w", err)
	}

	return nil
}

// Metrics func

func (tc *TestContext) HttpGet(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return string(body), nil
}

// GetMetric returns the metric of family carrying every label of labels.
func (tc *TestContext) GetMetric(ctx context.Context, family string, labels ...KeyValue) (*promdto.Metric, error) {
	metrics, err := tc.HttpGet(ctx, tc.metrics.URL)
	if err != nil {
		return nil, err
	}

	parser := expfmt.TextParser{}

	metricFamilies, err := parser.TextToMetricFamilies(strings.NewReader(metrics))
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics: %w", err)
	}

	metricFamily, ok := metricFamilies[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMetricNotFound, family)
	}

	for _, metric := range metricFamily.Metric {
		if hasLabels(metric, labels) {
			return metric, nil
		}
	}

	return nil, fmt.Errorf("%w: %s%v", ErrMetricNotFound, family, labels)
}

func hasLabels(metric *promdto.Metric, labels []KeyValue) bool {
	for _, label := range labels {
		found := false

		for _, pair := range metric.GetLabel() {
			if pair.GetName() == label.Key && pair.GetValue() == label.Value {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}
