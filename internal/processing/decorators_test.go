package processing_test

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	repomock "github.com/fleetsync/fleetsync/internal/domain/repo/mock"
	"github.com/fleetsync/fleetsync/internal/processing"
	"github.com/fleetsync/fleetsync/internal/processing/mock"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
	pipelinemock "github.com/fleetsync/fleetsync/pkg/pipeline/mock"
)

var _ = Describe("CountEvents", func() {
	It("should count processed and unchanged events by name", func(ctx SpecContext) {
		ctrl := gomock.NewController(GinkgoT())
		registry := prometheus.NewPedanticRegistry()

		version := uint64(1)
		state := mock.NewMockVersioned(ctrl)
		state.EXPECT().Version().DoAndReturn(func() uint64 { return version }).AnyTimes()

		inner := pipelinemock.NewMockProcessing[event.Event](ctrl)
		inner.EXPECT().Process(gomock.Any(), event.HostRegistered{}).DoAndReturn(func(context.Context, event.Event) error {
			version++

			return nil
		})
		inner.EXPECT().Process(gomock.Any(), event.HeartbeatFailed{}).Return(nil).Times(2)

		counter, err := processing.NewCountEvents(inner, state, registry, pipeline.MetricsConfig{Namespace: "test"})
		Expect(err).NotTo(HaveOccurred())

		Expect(counter.Process(ctx, event.HostRegistered{})).To(Succeed())
		Expect(counter.Process(ctx, event.HeartbeatFailed{})).To(Succeed())
		Expect(counter.Process(ctx, event.HeartbeatFailed{})).To(Succeed())

		Expect(testutil.CollectAndCount(registry, "test_processed_events_total")).To(Equal(2))
		Expect(testutil.CollectAndCount(registry, "test_unchanged_events_total")).To(Equal(1))
	})
})

var _ = Describe("CountLateEvents", func() {
	It("should count the events waiting too long in the queue", func(ctx SpecContext) {
		ctrl := gomock.NewController(GinkgoT())
		registry := prometheus.NewPedanticRegistry()
		clock := clockwork.NewFakeClock()

		inner := pipelinemock.NewMockProcessing[event.Event](ctrl)
		inner.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		counter, err := processing.NewCountLateEvents(inner, registry, clock, time.Second, pipeline.MetricsConfig{Namespace: "test"})
		Expect(err).NotTo(HaveOccurred())

		source := pipeline.Source{Channel: pipeline.ChannelWebsocket, ReceivedAt: clock.Now()}

		Expect(counter.Process(pipeline.ContextWithSource(ctx, source), event.HostRegistered{})).To(Succeed())

		clock.Advance(2 * time.Second)
		Expect(counter.Process(pipeline.ContextWithSource(ctx, source), event.HostRegistered{})).To(Succeed())

		Expect(testutil.CollectAndCount(registry, "test_late_events_total")).To(Equal(1))
	})
})

var _ = Describe("MainError", func() {
	It("should write the failures to the dead letter queue", func(ctx SpecContext) {
		writer := repomock.NewMockProcessingErrorWriter(gomock.NewController(GinkgoT()))
		pErr := pipeline.NewErrProcessingError(errBackend, "api_client", nil)

		writer.EXPECT().WriteProcessingError(gomock.Any(), pErr).Return(nil)

		Expect(processing.NewMainError(writer).Process(ctx, pErr)).To(Succeed())
	})

	It("should mark a failed write as retryable", func(ctx SpecContext) {
		writer := repomock.NewMockProcessingErrorWriter(gomock.NewController(GinkgoT()))
		writer.EXPECT().WriteProcessingError(gomock.Any(), gomock.Any()).Return(errors.New("bucket not found"))

		err := processing.NewMainError(writer).Process(ctx, pipeline.NewErrProcessingError(errBackend, "api_client", nil))
		Expect(err).To(MatchError(pipeline.ErrRetryableError))
	})

	It("should only log without a writer", func(ctx SpecContext) {
		Expect(processing.NewMainError(nil).WithLogger(logr.Discard()).Process(ctx, pipeline.NewErrProcessingError(errBackend, "", nil))).To(Succeed())
	})
})

var _ = Describe("Emitter", func() {
	It("should drop the oldest notifications nobody read", func() {
		emitter := processing.NewEmitter(store.New(), clockwork.NewFakeClock(), 2)

		emitter.Notify("first", processing.IconInfo)
		emitter.Notify("second", processing.IconInfo)
		emitter.Notify("third", processing.IconInfo)

		Expect(received(emitter)).To(HaveExactElements(HaveField("Text", "second"), HaveField("Text", "third")))
	})

	It("should persist the live feed and keep going when it fails", func(ctx SpecContext) {
		s := store.New()
		writer := repomock.NewMockLiveFeedWriter(gomock.NewController(GinkgoT()))
		writer.EXPECT().WriteLiveFeedEntry(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		emitter := processing.NewEmitter(s, clockwork.NewFakeClock(), 0).WithLiveFeed(processing.NewLiveFeedWriter(writer))
		emitter.Record(ctx, "vmhana01", "New host registered.")

		Expect(s.State().LiveFeed).To(ConsistOf(HaveField("Message", "New host registered.")))
	})
})

var _ = Describe("Emitter live feed size", func() {
	It("should keep the newest entries only", func(ctx SpecContext) {
		s := store.New()
		emitter := processing.NewEmitter(s, clockwork.NewFakeClock(), 0).WithLiveFeedSize(2)

		emitter.Record(ctx, "vmhana01", "first")
		emitter.Record(ctx, "vmhana01", "second")
		emitter.Record(ctx, "vmhana01", "third")

		Expect(s.State().LiveFeed).To(HaveExactElements(HaveField("Message", "third"), HaveField("Message", "second")))
	})
})

var _ = Describe("Debouncer", func() {
	It("should restart the wait of a key on every trigger", func() {
		clock := clockwork.NewFakeClock()
		debounce := processing.NewDebouncer(clock, time.Second)

		fired := make(chan string, 4)

		debounce.Trigger("host_registered", func() { fired <- "first" })
		clock.Advance(500 * time.Millisecond)
		debounce.Trigger("host_registered", func() { fired <- "second" })
		clock.Advance(500 * time.Millisecond)

		Consistently(fired).ShouldNot(Receive())

		clock.Advance(500 * time.Millisecond)
		Eventually(fired).Should(Receive(Equal("second")))
		Eventually(debounce.Pending).Should(BeZero())
	})

	It("should cancel everything on stop", func() {
		clock := clockwork.NewFakeClock()
		debounce := processing.NewDebouncer(clock, time.Second)

		fired := make(chan struct{}, 1)
		debounce.Trigger("heartbeat_failed", func() { fired <- struct{}{} })
		debounce.Stop()

		clock.Advance(time.Second)
		Consistently(fired).ShouldNot(Receive())
	})
})

var _ = Describe("Tasks", func() {
	It("should enqueue the task result as an internal event", func(ctx SpecContext) {
		clock := clockwork.NewFakeClock()
		sink := pipelinemock.NewMockProcessing[event.Event](gomock.NewController(GinkgoT()))

		sink.EXPECT().Process(gomock.Any(), event.SettingsFetched{Settings: entity.Settings{EulaAccepted: true}}).DoAndReturn(func(ctx context.Context, _ event.Event) error {
			source, ok := pipeline.SourceFromContext(ctx)
			Expect(ok).To(BeTrue())
			Expect(source.Channel).To(Equal(pipeline.ChannelInternal))
			Expect(source.Topic).To(Equal("settings_fetched"))
			Expect(source.ReceivedAt).To(Equal(clock.Now()))

			return nil
		})

		tasks := processing.NewTasks(clock)
		tasks.Bind(sink)

		tasks.Go(ctx, "fetch_settings", func(context.Context) event.Event {
			return event.SettingsFetched{Settings: entity.Settings{EulaAccepted: true}}
		})
		tasks.Go(ctx, "panicking", func(context.Context) event.Event {
			panic("nil backend")
		})
		tasks.Go(ctx, "nothing", func(context.Context) event.Event {
			return nil
		})

		tasks.Wait()
	})
})
