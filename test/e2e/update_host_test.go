package e2e_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/test/e2e"
)

var _ = Describe("Checking updated host case", func() {
	var testConfig e2e.TestConfig
	var testContext *e2e.TestContext

	var ctx context.Context

	BeforeEach(func() {
		ctx = context.TODO()

		testConfig = e2e.CreateTestConfig("updated-host")
		testContext = deploy(ctx, testConfig)

		expectLoaded(testContext)
	})

	AfterEach(func() {
		shutdown(ctx, testContext, testConfig)
	})

	When("a host registers", func() {
		BeforeEach(func() {
			err := testContext.PushFile(ctx, "resources/input/host_registered.json")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should append it and record it in the live feed", func() {
			Eventually(func() int { return testContext.State().Hosts.Len() }).Should(Equal(3))

			hosts := testContext.State().Hosts.All()
			Expect(hosts[2].Hostname).To(Equal("vmnwprd01"))

			Expect(testContext.State().LiveFeed).To(HaveLen(1))
			Expect(testContext.State().LiveFeed[0]).To(And(
				HaveField("Source", "vmnwprd01"),
				HaveField("Message", "New host registered."),
			))
		})
	})

	When("the details of a host are updated", func() {
		BeforeEach(func() {
			err := testContext.PushFile(ctx, "resources/input/host_details_updated.json")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should merge the updated fields only", func() {
			Eventually(func() string {
				host, _ := testContext.State().Hosts.Get(vmhana01ID)

				return host.AgentVersion
			}).Should(Equal("2.3.0"))

			host, _ := testContext.State().Hosts.Get(vmhana01ID)
			Expect(host.IPAddresses).To(Equal([]string{"10.80.1.11", "10.80.1.13"}))
			Expect(host.Hostname).To(Equal("vmhana01"))
			Expect(host.Heartbeat).To(Equal(entity.HealthPassing))
			Expect(host.ClusterID).To(Equal(hanaClusterID))
		})
	})
})
