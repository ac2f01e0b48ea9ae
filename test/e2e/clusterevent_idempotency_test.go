package e2e_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetsync/fleetsync/test/e2e"
)

var _ = Describe("Checking cluster registration idempotency", func() {
	var testConfig e2e.TestConfig
	var testContext *e2e.TestContext

	var ctx context.Context

	BeforeEach(func() {
		ctx = context.TODO()

		testConfig = e2e.CreateTestConfig("idempotency")
		testContext = deploy(ctx, testConfig)

		expectLoaded(testContext)
	})

	AfterEach(func() {
		shutdown(ctx, testContext, testConfig)
	})

	When("the same cluster registration is received twice", func() {
		BeforeEach(func() {
			for i := 0; i < 2; i++ {
				err := testContext.PushFile(ctx, "resources/input/cluster_registered.json")
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should keep a single cluster", func(ctx SpecContext) {
			By("eventually processing both events")
			expectCounter(ctx, testContext, e2e.ProcessedMetricFamily, 2, e2e.KeyValue{Key: "name", Value: "cluster_registered"})

			By("keeping the cluster once, after the fetched one")
			clusters := testContext.State().Clusters.All()
			Expect(clusters).To(HaveLen(2))
			Expect(clusters[0].ID).To(Equal(hanaClusterID))
			Expect(clusters[1].Name).To(Equal("netweaver_cluster"))
		})
	})
})
