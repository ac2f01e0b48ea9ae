package pipeline_test

import (
	"context"
	"sync"

	"github.com/IBM/sarama"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/fleetsync/fleetsync/pkg/pipeline"
	"github.com/fleetsync/fleetsync/pkg/pipeline/mock"
)

type fakeSession struct {
	ctx context.Context

	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32 { return map[string][]int32{"events": {0}} }
func (s *fakeSession) MemberID() string { return "fleetsync-1" }
func (s *fakeSession) GenerationID() int32 { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string) {}
func (s *fakeSession) Commit() {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.marked = append(s.marked, msg.Offset)
}

func (s *fakeSession) Marked() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]int64{}, s.marked...)
}

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c fakeClaim) Topic() string { return "events" }
func (c fakeClaim) Partition() int32 { return 0 }
func (c fakeClaim) InitialOffset() int64 { return 0 }
func (c fakeClaim) HighWaterMarkOffset() int64 { return 0 }
func (c fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

var _ = Describe("JSONHandler", func() {
	var processing *mock.MockProcessing[Event]
	var errorProcessing *mock.MockProcessing[pipeline.ErrProcessingError]
	var handler pipeline.JSONHandler[Event]

	consume := func(ctx context.Context, messages ...*sarama.ConsumerMessage) *fakeSession {
		session := &fakeSession{ctx: ctx}
		claim := fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(messages))}

		for _, msg := range messages {
			claim.messages <- msg
		}

		close(claim.messages)

		Expect(handler.ConsumeClaim(session, claim)).To(Succeed())

		return session
	}

	BeforeEach(func() {
		ctrl := gomock.NewController(GinkgoT())

		processing = mock.NewMockProcessing[Event](ctrl)
		errorProcessing = mock.NewMockProcessing[pipeline.ErrProcessingError](ctrl)
		handler = pipeline.NewJSONHandler[Event](processing, errorProcessing)
	})

	It("should decode, process and mark every message", func(ctx SpecContext) {
		gomock.InOrder(
			processing.EXPECT().Process(gomock.Any(), hostRegistered).Return(nil),
			processing.EXPECT().Process(gomock.Any(), Event{Name: "cluster_registered"}).Return(nil),
		)

		session := consume(ctx,
			&sarama.ConsumerMessage{Topic: "events", Offset: 1, Value: []byte(`{"Name":"host_registered"}`)},
			&sarama.ConsumerMessage{Topic: "events", Offset: 2, Value: []byte(`{"Name":"cluster_registered"}`)},
		)

		Expect(session.Marked()).To(Equal([]int64{1, 2}))
	})

	It("should skip tombstones", func(ctx SpecContext) {
		session := consume(ctx, &sarama.ConsumerMessage{Topic: "events", Offset: 7})

		Expect(session.Marked()).To(Equal([]int64{7}))
	})

	It("should send undecodable messages to the error processing with their source", func(ctx SpecContext) {
		var received pipeline.ErrProcessingError
		errorProcessing.EXPECT().Process(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, err pipeline.ErrProcessingError) error {
			received = err

			return nil
		})

		session := consume(ctx, &sarama.ConsumerMessage{Topic: "events", Partition: 0, Offset: 3, Value: []byte("not even json")})

		Expect(session.Marked()).To(Equal([]int64{3}))
		Expect(received.Category).To(Equal(pipeline.UnmarshalErrorCategory))
		Expect(received.Source).NotTo(BeNil())
		Expect(received.Source.Channel).To(Equal(pipeline.ChannelKafka))
		Expect(received.Source.Offset).To(BeEquivalentTo(3))
	})

	It("should send processing failures to the error processing and move on", func(ctx SpecContext) {
		processing.EXPECT().Process(gomock.Any(), hostRegistered).Return(errWatcher)
		errorProcessing.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil)

		session := consume(ctx, &sarama.ConsumerMessage{Topic: "events", Offset: 4, Value: []byte(`{"Name":"host_registered"}`)})

		Expect(session.Marked()).To(Equal([]int64{4}))
	})

	It("should leave the message uncommitted when the session ends during processing", func(ctx SpecContext) {
		sessionCtx, cancel := context.WithCancel(ctx)

		processing.EXPECT().Process(gomock.Any(), hostRegistered).DoAndReturn(func(ctx context.Context, _ Event) error {
			cancel()

			return ctx.Err()
		})

		session := &fakeSession{ctx: sessionCtx}
		claim := fakeClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
		claim.messages <- &sarama.ConsumerMessage{Topic: "events", Offset: 5, Value: []byte(`{"Name":"host_registered"}`)}

		Expect(handler.ConsumeClaim(session, claim)).To(Succeed())
		Expect(session.Marked()).To(BeEmpty())
	})
})
