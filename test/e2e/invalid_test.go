package e2e_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetsync/fleetsync/test/e2e"
)

var _ = Describe("Checking invalid data handling", func() {
	var testConfig e2e.TestConfig
	var testContext *e2e.TestContext

	var ctx context.Context

	BeforeEach(func() {
		ctx = context.TODO()

		testConfig = e2e.CreateTestConfig("invalid")
		testContext = deploy(ctx, testConfig)

		expectLoaded(testContext)
	})

	AfterEach(func() {
		shutdown(ctx, testContext, testConfig)
	})

	DescribeTable("should report the failure and keep going",
		func(ctx SpecContext, path string, category string) {
			err := testContext.PushFile(ctx, path)
			Expect(err).NotTo(HaveOccurred())

			By("eventually incrementing the error metrics")
			expectCounter(ctx, testContext, e2e.ErrorMetricFamily, 1, e2e.KeyValue{Key: "category", Value: category})

			By("still applying the next events")
			err = testContext.PushFile(ctx, "resources/input/host_registered.json")
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() int { return testContext.State().Hosts.Len() }).Should(Equal(3))
		},
		Entry("not even json", "resources/not_even_json.txt", "unmarshal"),
		Entry("unknown event", "resources/input/unknown_event.json", "unknown_event"),
		Entry("invalid payload", "resources/input/invalid_payload.json", "invalid_payload"),
	)
})
