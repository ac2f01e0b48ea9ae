package e2e_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/test/e2e"
)

const (
	hanaClusterID = "5dfbd28f-35ab-5f9b-a5f2-5fe1ba4e9ecd"
	vmhana01ID    = "9cd46919-5f19-59aa-993e-cf3736c71053"
	vmhana02ID    = "fb2c6b8a-9915-5969-a6b7-8b5a42de1971"
)

// Helper

func expectCounter(ctx context.Context, testContext *e2e.TestContext, family string, value int, labels ...e2e.KeyValue) {
	EventuallyWithOffset(1, func(g Gomega, ctx context.Context) {
		metric, err := testContext.GetMetric(ctx, family, labels...)
		g.Expect(err).NotTo(HaveOccurred())

		g.Expect(metric.Counter).NotTo(BeNil())
		g.Expect(metric.Counter.Value).NotTo(BeNil())
		g.Expect(*metric.Counter.Value).To(BeEquivalentTo(value))
	}).WithContext(ctx).WithTimeout(10 * time.Second).WithPolling(100 * time.Millisecond).Should(Succeed())
}

func expectLoaded(testContext *e2e.TestContext) {
	EventuallyWithOffset(1, func(g Gomega) {
		state := testContext.State()

		for _, kind := range store.Kinds {
			g.Expect(state.Status(kind)).To(Equal(store.Status{Loaded: true}), string(kind))
		}

		g.Expect(state.Hosts.Len()).To(Equal(2))
		g.Expect(state.Clusters.Len()).To(Equal(1))
		g.Expect(state.Catalog.Checks).To(HaveLen(2))
	}).WithTimeout(10 * time.Second).WithPolling(100 * time.Millisecond).Should(Succeed())
}

func deploy(ctx context.Context, testConfig e2e.TestConfig) *e2e.TestContext {
	testContext := e2e.CreateTestContext(testConfig)

	err := testContext.DeployAll(ctx)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	return testContext
}

func shutdown(ctx context.Context, testContext *e2e.TestContext, testConfig e2e.TestConfig) {
	if CurrentSpecReport().Failed() {
		GinkgoLogr.Info("Test failed", "config", testConfig)
	}

	err := testContext.Shutdown(ctx)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}

// Test Case

var _ = Describe("Checking the happy path", func() {
	var testConfig e2e.TestConfig
	var testContext *e2e.TestContext

	var ctx context.Context

	BeforeEach(func() {
		ctx = context.TODO()

		testConfig = e2e.CreateTestConfig("happy-path")
		testContext = deploy(ctx, testConfig)
	})

	AfterEach(func() {
		shutdown(ctx, testContext, testConfig)
	})

	It("should load every collection", func() {
		expectLoaded(testContext)
		Eventually(testContext.Engine().Ready).Should(Succeed())

		state := testContext.State()

		Expect(state.SAPSystems.Len()).To(Equal(1))
		Expect(state.Databases.Len()).To(Equal(1))
		Expect(state.ApplicationInstances.Len()).To(Equal(1))
		Expect(state.DatabaseInstances.Len()).To(Equal(1))
		Expect(state.HealthSummary.Len()).To(Equal(1))
		Expect(state.Settings.EulaAccepted).To(BeTrue())
		Expect(state.Catalog.Query).To(Equal(entity.CatalogQuery{Provider: "azure", TargetType: "cluster"}))
	})

	When("the health of a cluster changes", func() {
		BeforeEach(func() {
			expectLoaded(testContext)

			err := testContext.PushFile(ctx, "resources/input/cluster_health_changed.json")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should update the cluster and notify", func(ctx SpecContext) {
			By("eventually updating the cluster")
			Eventually(func() entity.Health {
				cluster, _ := testContext.State().Clusters.Get(hanaClusterID)

				return cluster.Health
			}).Should(Equal(entity.HealthCritical))

			By("notifying the change")
			Eventually(testContext.Engine().Notifications()).Should(Receive(HaveField("Text", "The cluster hana_cluster_1 health is critical!")))

			By("eventually incrementing the processed events metrics")
			expectCounter(ctx, testContext, e2e.ProcessedMetricFamily, 1, e2e.KeyValue{Key: "name", Value: "cluster_health_changed"})
		})

		It("should not change anything the second time", func(ctx SpecContext) {
			expectCounter(ctx, testContext, e2e.ProcessedMetricFamily, 1, e2e.KeyValue{Key: "name", Value: "cluster_health_changed"})

			err := testContext.PushFile(ctx, "resources/input/cluster_health_changed.json")
			Expect(err).NotTo(HaveOccurred())

			expectCounter(ctx, testContext, e2e.UnchangedMetricFamily, 1, e2e.KeyValue{Key: "name", Value: "cluster_health_changed"})
		})
	})
})
