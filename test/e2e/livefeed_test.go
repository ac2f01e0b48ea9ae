package e2e_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/test/e2e"
)

var _ = Describe("Checking the live feed persistence", func() {
	var testConfig e2e.TestConfig
	var testContext *e2e.TestContext

	var ctx context.Context

	BeforeEach(func() {
		ctx = context.TODO()

		testConfig = e2e.CreateTestConfig("livefeed")
		testConfig.WithValkey = true

		testContext = deploy(ctx, testConfig)

		expectLoaded(testContext)
	})

	AfterEach(func() {
		shutdown(ctx, testContext, testConfig)
	})

	When("the process restarts", func() {
		BeforeEach(func() {
			err := testContext.PushFile(ctx, "resources/input/host_registered.json")
			Expect(err).NotTo(HaveOccurred())

			By("eventually persisting the entry")
			expectCounter(ctx, testContext, e2e.ProcessedMetricFamily, 1, e2e.KeyValue{Key: "name", Value: "host_registered"})
			Expect(testContext.State().LiveFeed).To(HaveLen(1))

			err = testContext.DeleteProcessing(ctx)
			Expect(err).NotTo(HaveOccurred())

			err = testContext.DeployProcessing(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should restore the live feed", func() {
			Eventually(func() []entity.LiveFeedEntry {
				return testContext.State().LiveFeed
			}).WithTimeout(10 * time.Second).Should(ConsistOf(And(
				HaveField("Source", "vmnwprd01"),
				HaveField("Message", "New host registered."),
			)))
		})
	})
})
