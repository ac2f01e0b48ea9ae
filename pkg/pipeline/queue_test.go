package pipeline_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/mock/gomock"

	"github.com/fleetsync/fleetsync/pkg/pipeline"
	"github.com/fleetsync/fleetsync/pkg/pipeline/mock"
)

// recorder keeps the names of the processed events, failing on the ones listed in failOn.
type recorder struct {
	mu     sync.Mutex
	names  []string
	failOn map[string]error
}

func (r *recorder) Process(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.names = append(r.names, e.Name)

	return r.failOn[e.Name]
}

func (r *recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.names...)
}

var _ = Describe("Queue", func() {
	var rec *recorder
	var errorProcessing *mock.MockProcessing[pipeline.ErrProcessingError]
	var queue *pipeline.Queue[Event]

	start := func(ctx context.Context) context.CancelFunc {
		ctx, cancel := context.WithCancel(ctx)

		go func() {
			defer GinkgoRecover()

			_ = queue.Start(ctx)
		}()

		return cancel
	}

	BeforeEach(func() {
		rec = &recorder{failOn: map[string]error{}}
		errorProcessing = mock.NewMockProcessing[pipeline.ErrProcessingError](gomock.NewController(GinkgoT()))
		queue = pipeline.NewQueue[Event](16, rec, errorProcessing)
	})

	It("should process payloads in arrival order", func(ctx SpecContext) {
		names := []string{"cluster_registered", "cluster_details_updated", "cluster_health_changed"}

		for _, name := range names {
			Expect(queue.Process(ctx, Event{Name: name})).To(Succeed())
		}

		Expect(queue.Len()).To(Equal(3))

		cancel := start(ctx)
		defer cancel()

		Eventually(rec.Names).Should(Equal(names))
	})

	It("should send failures to the error processing with their source and keep going", func(ctx SpecContext) {
		rec.failOn["host_registered"] = errWatcher

		source := pipeline.Source{Channel: pipeline.ChannelWebsocket, Topic: "monitoring:hosts"}

		var received pipeline.ErrProcessingError
		errorProcessing.EXPECT().Process(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, err pipeline.ErrProcessingError) error {
			received = err

			return nil
		})

		Expect(queue.Process(pipeline.ContextWithSource(ctx, source), hostRegistered)).To(Succeed())
		Expect(queue.Process(ctx, Event{Name: "heartbeat_succeded"})).To(Succeed())

		cancel := start(ctx)
		defer cancel()

		Eventually(rec.Names).Should(Equal([]string{"host_registered", "heartbeat_succeded"}))

		Expect(received).To(MatchError(errWatcher))
		Expect(received.Category).To(Equal(pipeline.UnknownCategory))
		Expect(received.Source).NotTo(BeNil())
		Expect(received.Source.Topic).To(Equal("monitoring:hosts"))
	})

	It("should not block forever on a full queue", func(ctx SpecContext) {
		full := pipeline.NewQueue[Event](1, rec, errorProcessing)
		Expect(full.Process(ctx, hostRegistered)).To(Succeed())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		Expect(full.Process(cancelled, hostRegistered)).To(MatchError(context.Canceled))
	})

	It("should expose its depth", func(ctx SpecContext) {
		registry := prometheus.NewPedanticRegistry()

		_, err := queue.WithDepthGauge(registry, pipeline.MetricsConfig{Namespace: "test"})
		Expect(err).NotTo(HaveOccurred())

		Expect(queue.Process(ctx, hostRegistered)).To(Succeed())
		Expect(queue.Process(ctx, hostRegistered)).To(Succeed())

		families, err := registry.Gather()
		Expect(err).NotTo(HaveOccurred())
		Expect(families).To(HaveLen(1))
		Expect(families[0].Metric[0].Gauge.GetValue()).To(BeEquivalentTo(2))
	})
})
