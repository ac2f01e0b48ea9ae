package e2e_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/test/e2e"
)

var _ = Describe("Checking execution requests", func() {
	var testConfig e2e.TestConfig
	var testContext *e2e.TestContext

	var ctx context.Context

	BeforeEach(func() {
		ctx = context.TODO()

		testConfig = e2e.CreateTestConfig("execution")
		testContext = deploy(ctx, testConfig)

		expectLoaded(testContext)
	})

	AfterEach(func() {
		shutdown(ctx, testContext, testConfig)
	})

	It("should request the selected checks on every cluster host", func(ctx SpecContext) {
		err := testContext.Engine().RequestExecution(ctx, entity.TargetTypeCluster, hanaClusterID)
		Expect(err).NotTo(HaveOccurred())

		By("calling the server")
		Eventually(testContext.Executions()).Should(Receive(Equal(hanaClusterID)))

		By("eventually tracking the requested execution")
		Eventually(func() *entity.Execution {
			last, _ := testContext.State().LastExecution(hanaClusterID)

			return last.Data
		}).Should(And(
			Not(BeNil()),
			HaveField("Status", entity.ExecutionStatusRequested),
			HaveField("Targets", ConsistOf(
				entity.ExecutionTarget{AgentID: vmhana01ID, Checks: []string{"156F64", "21FCA6"}},
				entity.ExecutionTarget{AgentID: vmhana02ID, Checks: []string{"156F64", "21FCA6"}},
			)),
		))

		cluster, _ := testContext.State().Clusters.Get(hanaClusterID)
		Expect(cluster.ChecksExecution).To(Equal(entity.ChecksExecutionRequested))
	})
})
