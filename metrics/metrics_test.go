package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kinderudp/paging-go"
	"github.com/kinderudp/paging-go/metrics"
)

var _ = Describe("Observer", func() {
	var (
		reg   *prometheus.Registry
		obs   *metrics.Observer
		table paging.TableRef
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		obs = metrics.New(reg, "")
		table = paging.TableRef{Database: "UDP", Schema: "dbo", Name: "orders"}
	})

	It("should track a completed fetch", func() {
		info := paging.NewStartPageInfo(table, "id", 25, 3)
		obs.Started(info)
		Expect(value(reg, "udp_table_rows")).To(Equal(25.0))

		for page, rows := range []int{10, 10, 5} {
			info.Page = page + 1
			info.PageRows = rows
			obs.PageFetched(info)
		}
		info.Elapsed = 2 * time.Second
		obs.Completed(info)

		Expect(value(reg, "udp_pages_fetched_total")).To(Equal(3.0))
		Expect(value(reg, "udp_rows_fetched_total")).To(Equal(25.0))
		Expect(value(reg, "udp_fetch_progress_ratio")).To(Equal(1.0))
		Expect(testutil.GatherAndCount(reg, "udp_fetch_duration_seconds")).To(Equal(1))
		Expect(testutil.GatherAndCount(reg, "udp_fetches_total")).To(Equal(1))
	})

	It("should report partial progress", func() {
		info := paging.NewStartPageInfo(table, "id", 40, 4)
		obs.Started(info)

		info.Page = 1
		info.PageRows = 10
		obs.PageFetched(info)

		Expect(value(reg, "udp_fetch_progress_ratio")).To(Equal(0.25))
	})

	It("should count failures by outcome", func() {
		info := paging.NewStartPageInfo(table, "", 0, 0)
		obs.Failed(info, paging.ErrNoData)
		obs.Failed(info, fmt.Errorf("page 2/3: %w", context.Canceled))

		Expect(testutil.GatherAndCount(reg, "udp_fetches_total")).To(Equal(2))
		expected := `
# HELP udp_fetches_total Finished table fetches by outcome
# TYPE udp_fetches_total counter
udp_fetches_total{outcome="canceled",table="UDP.dbo.orders"} 1
udp_fetches_total{outcome="no_data",table="UDP.dbo.orders"} 1
`
		Expect(testutil.GatherAndCompare(reg, strings.NewReader(expected), "udp_fetches_total")).To(Succeed())
	})

	It("should honour a custom namespace", func() {
		other := prometheus.NewRegistry()
		metrics.New(other, "warehouse").Started(paging.NewStartPageInfo(table, "id", 1, 1))

		Expect(testutil.GatherAndCount(other, "warehouse_table_rows")).To(Equal(1))
	})
})

var _ = DescribeTable("Outcome",
	func(err error, expected string) {
		Expect(metrics.Outcome(err)).To(Equal(expected))
	},
	Entry("nil", nil, metrics.OutcomeCompleted),
	Entry("no data", paging.ErrNoData, metrics.OutcomeNoData),
	Entry("wrapped no order column", fmt.Errorf("dbo.x: %w", paging.ErrNoOrderingColumn), metrics.OutcomeNoOrderColumn),
	Entry("invalid table", &paging.InvalidTableError{}, metrics.OutcomeInvalidTable),
	Entry("page size", &paging.PageSizeError{Requested: 0}, metrics.OutcomeInvalidSize),
	Entry("deadline", context.DeadlineExceeded, metrics.OutcomeCanceled),
	Entry("driver", errors.New("login failed"), metrics.OutcomeError),
)

// value returns the first series of the named counter or gauge family.
func value(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	Expect(err).ToNot(HaveOccurred())
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		m := f.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			return c.GetValue()
		}
		return m.GetGauge().GetValue()
	}
	Fail("metric " + name + " not found")
	return 0
}
