package pipeline_test

import (
	"context"
	"errors"
	"sync"

	"github.com/IBM/sarama"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/fleetsync/fleetsync/pkg/pipeline"
	"github.com/fleetsync/fleetsync/pkg/pipeline/mock"
)

// scriptedGroup returns the scripted errors from successive Consume calls, then cancels the session context.
type scriptedGroup struct {
	mu     sync.Mutex
	script []error
	calls  int
	cancel context.CancelFunc
	errs   chan error
}

func (g *scriptedGroup) Consume(context.Context, []string, sarama.ConsumerGroupHandler) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++

	if len(g.script) == 0 {
		g.cancel()

		return nil
	}

	err := g.script[0]
	g.script = g.script[1:]

	return err
}

func (g *scriptedGroup) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.calls
}

func (g *scriptedGroup) Errors() <-chan error { return g.errs }

func (g *scriptedGroup) Close() error { return nil }

func (g *scriptedGroup) Pause(map[string][]int32) {}

func (g *scriptedGroup) Resume(map[string][]int32) {}

func (g *scriptedGroup) PauseAll() {}

func (g *scriptedGroup) ResumeAll() {}

var _ = Describe("Runner", func() {
	var processing *mock.MockProcessing[Event]
	var errorProcessing *mock.MockProcessing[pipeline.ErrProcessingError]

	BeforeEach(func() {
		ctrl := gomock.NewController(GinkgoT())

		processing = mock.NewMockProcessing[Event](ctrl)
		errorProcessing = mock.NewMockProcessing[pipeline.ErrProcessingError](ctrl)
	})

	It("should rejoin the group after a rebalance until the context expires", func(ctx SpecContext) {
		ctx2, cancel := context.WithCancel(ctx)
		group := &scriptedGroup{script: []error{nil, nil}, cancel: cancel, errs: make(chan error)}

		runner := pipeline.NewRunner[Event](group, []string{"events"}, processing, errorProcessing)

		Expect(runner.Start(ctx2)).To(MatchError(context.Canceled))
		Expect(group.Calls()).To(Equal(3))
	})

	It("should stop without error once the group is closed", func(ctx SpecContext) {
		group := &scriptedGroup{script: []error{sarama.ErrClosedConsumerGroup}, errs: make(chan error)}

		runner := pipeline.NewRunner[Event](group, []string{"events"}, processing, errorProcessing)

		Expect(runner.Start(ctx)).To(Succeed())
		Expect(group.Calls()).To(Equal(1))
	})

	It("should return the consumer failures", func(ctx SpecContext) {
		failure := errors.New("broker unreachable")
		group := &scriptedGroup{script: []error{failure}, errs: make(chan error)}

		runner := pipeline.NewRunner[Event](group, []string{"events"}, processing, errorProcessing)

		Expect(runner.Start(ctx)).To(MatchError(failure))
	})
})
