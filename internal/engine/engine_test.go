package engine_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/fleetsync/fleetsync/internal/channel"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	repomock "github.com/fleetsync/fleetsync/internal/domain/repo/mock"
	"github.com/fleetsync/fleetsync/internal/engine"
	"github.com/fleetsync/fleetsync/internal/processing"
	"github.com/fleetsync/fleetsync/internal/processing/mock"
	"github.com/fleetsync/fleetsync/internal/selectors"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// pushChannel delivers its events once released, then waits for the end of the context.
type pushChannel struct {
	release    chan struct{}
	events     []entity.Event
	err        error
	processing pipeline.Processing[entity.Event]
}

func (p *pushChannel) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.release:
	}

	if p.err != nil {
		return p.err
	}

	for _, e := range p.events {
		err := p.processing.Process(ctx, e)
		if err != nil {
			return err
		}
	}

	<-ctx.Done()

	return ctx.Err()
}

type failures struct {
	mu    sync.Mutex
	items []pipeline.ErrProcessingError
}

func (f *failures) Process(_ context.Context, err pipeline.ErrProcessingError) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, err)

	return nil
}

var _ = Describe("Engine", func() {
	var s *store.Store
	var backend *mock.MockBackend
	var queue *pipeline.Queue[event.Event]
	var eng *engine.Engine
	var ch *pushChannel

	hosts := []entity.Host{
		{ID: "h1", Hostname: "vmhana01", ClusterID: "c1", Heartbeat: entity.HealthPassing},
		{ID: "h2", Hostname: "vmhana02", ClusterID: "c1", Heartbeat: entity.HealthPassing},
	}
	clusters := []entity.Cluster{{ID: "c1", Name: "hana_cluster", SelectedChecks: []string{"C1"}}}
	query := entity.CatalogQuery{Provider: "azure", TargetType: "cluster"}

	expectInitialFetch := func() {
		backend.EXPECT().GetHealthSummary(gomock.Any()).Return([]entity.SAPSystemHealth{}, nil)
		backend.EXPECT().GetSettings(gomock.Any()).Return(entity.Settings{EulaAccepted: true}, nil)
		backend.EXPECT().GetHosts(gomock.Any()).Return(hosts, nil)
		backend.EXPECT().GetClusters(gomock.Any()).Return(clusters, nil)
		backend.EXPECT().GetSAPSystems(gomock.Any()).Return([]entity.SAPSystem{}, nil)
		backend.EXPECT().GetDatabases(gomock.Any()).Return([]entity.Database{}, nil)
		backend.EXPECT().GetCatalog(gomock.Any(), query).Return([]entity.Check{{ID: "C1"}}, nil)
	}

	loaded := func() bool {
		state := s.State()
		for _, kind := range store.Kinds {
			if state.Status(kind).Loading {
				return false
			}
		}

		return state.Hosts.Len() == 2 && state.Clusters.Len() == 1 && len(state.Catalog.Checks) == 1
	}

	connect := func(ctx context.Context) (context.CancelFunc, chan error) {
		ctx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)

		go func() {
			done <- eng.Connect(ctx, ch)
		}()

		return cancel, done
	}

	BeforeEach(func() {
		clock := clockwork.NewRealClock()

		s = store.New()
		backend = mock.NewMockBackend(gomock.NewController(GinkgoT()))

		tasks := processing.NewTasks(clock)
		emitter := processing.NewEmitter(s, clock, 64)
		debounce := processing.NewDebouncer(clock, time.Hour)
		main := processing.NewMain(s, backend, emitter, tasks, debounce)

		queue = pipeline.NewQueue[event.Event](64, main, &failures{})

		memo, err := selectors.NewMemo(16)
		Expect(err).NotTo(HaveOccurred())

		eng = engine.New(s, queue, tasks, emitter, debounce, selectors.New(s, memo), clock).WithCatalog(query)
		ch = &pushChannel{release: make(chan struct{}), processing: channel.NewDecoder(queue)}
	})

	It("should load the initial data then apply the pushed events", func(ctx SpecContext) {
		expectInitialFetch()

		ch.events = []entity.Event{
			{Name: "heartbeat_failed", Payload: map[string]interface{}{"id": "h2", "hostname": "vmhana02"}},
			{Name: "cluster_health_changed", Payload: map[string]interface{}{"cluster_id": "c1", "health": "critical"}},
		}

		cancel, done := connect(ctx)
		defer cancel()

		Eventually(loaded).Should(BeTrue())
		Expect(s.State().Settings.EulaAccepted).To(BeTrue())
		Eventually(eng.Ready).Should(Succeed())

		close(ch.release)

		Eventually(func() entity.Health {
			cluster, _ := s.State().Clusters.Get("c1")

			return cluster.Health
		}).Should(Equal(entity.HealthCritical))

		host, _ := s.State().Hosts.Get("h2")
		Expect(host.Heartbeat).To(Equal(entity.HealthCritical))

		Eventually(eng.Notifications()).Should(Receive(HaveField("Text", "The host vmhana02 heartbeat is failing.")))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should restore the persisted live feed", func(ctx SpecContext) {
		expectInitialFetch()

		entries := []entity.LiveFeedEntry{
			{Time: time.Date(2024, 12, 25, 14, 0, 1, 0, time.UTC), Source: "vmhana01", Message: "Heartbeat is passing."},
			{Time: time.Date(2024, 12, 25, 14, 0, 0, 0, time.UTC), Source: "vmhana01", Message: "New host registered."},
		}

		reader := repomock.NewMockLiveFeedReader(gomock.NewController(GinkgoT()))
		reader.EXPECT().GetLiveFeed(gomock.Any()).Return(entries, nil)

		eng = eng.WithLiveFeed(reader)

		cancel, done := connect(ctx)
		defer cancel()

		Eventually(func() []entity.LiveFeedEntry { return s.State().LiveFeed }).Should(Equal(entries))

		Eventually(loaded).Should(BeTrue())

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should stop when the channel fails", func(ctx SpecContext) {
		backend.EXPECT().GetHealthSummary(gomock.Any()).Return(nil, nil).AnyTimes()
		backend.EXPECT().GetSettings(gomock.Any()).Return(entity.Settings{}, nil).AnyTimes()
		backend.EXPECT().GetHosts(gomock.Any()).Return(nil, nil).AnyTimes()
		backend.EXPECT().GetClusters(gomock.Any()).Return(nil, nil).AnyTimes()
		backend.EXPECT().GetSAPSystems(gomock.Any()).Return(nil, nil).AnyTimes()
		backend.EXPECT().GetDatabases(gomock.Any()).Return(nil, nil).AnyTimes()
		backend.EXPECT().GetCatalog(gomock.Any(), query).Return(nil, nil).AnyTimes()

		errBroker := errors.New("broker unreachable")
		ch.err = errBroker
		close(ch.release)

		_, done := connect(ctx)

		Eventually(done).Should(Receive(MatchError(errBroker)))
	})

	It("should request an execution of the selected checks on the cluster hosts", func(ctx SpecContext) {
		expectInitialFetch()
		backend.EXPECT().RequestExecution(gomock.Any(), entity.TargetTypeCluster, "c1").Return(nil)

		cancel, done := connect(ctx)
		defer cancel()

		Eventually(loaded).Should(BeTrue())

		Expect(eng.RequestExecution(ctx, entity.TargetTypeCluster, "c1")).To(Succeed())

		Eventually(func() *entity.Execution {
			last, _ := s.State().LastExecution("c1")

			return last.Data
		}).Should(And(
			HaveField("Status", entity.ExecutionStatusRequested),
			HaveField("Targets", []entity.ExecutionTarget{
				{AgentID: "h1", Checks: []string{"C1"}},
				{AgentID: "h2", Checks: []string{"C1"}},
			}),
		))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should save a checks selection then notify it", func(ctx SpecContext) {
		expectInitialFetch()
		backend.EXPECT().SaveChecksSelection(gomock.Any(), entity.TargetTypeCluster, "c1", []string{"C1", "C2"}).Return(nil)

		cancel, done := connect(ctx)
		defer cancel()

		Eventually(loaded).Should(BeTrue())

		Expect(eng.SelectChecks(ctx, entity.TargetTypeCluster, "c1", []string{"C1", "C2"})).To(Succeed())

		Eventually(func() []string {
			cluster, _ := s.State().Clusters.Get("c1")

			return cluster.SelectedChecks
		}).Should(Equal([]string{"C1", "C2"}))

		Eventually(eng.Notifications()).Should(Receive(HaveField("Text", "Checks selection for hana_cluster saved")))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should fetch the last execution of a group", func(ctx SpecContext) {
		expectInitialFetch()
		backend.EXPECT().GetLastExecution(gomock.Any(), "c1").Return(&entity.Execution{
			ExecutionID: "e1",
			GroupID:     "c1",
			Status:      entity.ExecutionStatusCompleted,
			Result:      entity.HealthPassing,
		}, nil)

		cancel, done := connect(ctx)
		defer cancel()

		Eventually(loaded).Should(BeTrue())

		Expect(eng.FetchLastExecution(ctx, "c1")).To(Succeed())

		Eventually(func() *entity.Execution {
			last, _ := s.State().LastExecution("c1")

			return last.Data
		}).Should(And(
			HaveField("ExecutionID", "e1"),
			HaveField("Result", entity.HealthPassing),
		))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should not be ready before connecting", func() {
		Expect(eng.Ready()).To(MatchError(engine.ErrNotReady))
	})

	It("should not be ready while a collection failed to load", func(ctx SpecContext) {
		backend.EXPECT().GetHealthSummary(gomock.Any()).Return([]entity.SAPSystemHealth{}, nil)
		backend.EXPECT().GetSettings(gomock.Any()).Return(entity.Settings{}, nil)
		backend.EXPECT().GetHosts(gomock.Any()).Return(nil, errors.New("Network Error"))
		backend.EXPECT().GetClusters(gomock.Any()).Return(clusters, nil)
		backend.EXPECT().GetSAPSystems(gomock.Any()).Return([]entity.SAPSystem{}, nil)
		backend.EXPECT().GetDatabases(gomock.Any()).Return([]entity.Database{}, nil)
		backend.EXPECT().GetCatalog(gomock.Any(), query).Return([]entity.Check{}, nil)

		cancel, done := connect(ctx)
		defer cancel()

		Eventually(func() string { return s.State().Status(store.KindHosts).Error }).Should(Equal("Network Error"))
		Eventually(func() bool { return s.State().Status(store.KindClusters).Loaded }).Should(BeTrue())

		err := eng.Ready()
		Expect(err).To(MatchError(engine.ErrNotReady))
		Expect(err.Error()).To(ContainSubstring("hosts: Network Error"))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should refuse an execution for an unknown target", func(ctx SpecContext) {
		Expect(eng.RequestExecution(ctx, entity.TargetTypeHost, "h9")).To(MatchError(engine.ErrUnknownTarget))
		Expect(eng.RequestExecution(ctx, "sap_system", "s1")).To(MatchError(engine.ErrUnknownTarget))
		Expect(queue.Len()).To(BeZero())
	})
})
