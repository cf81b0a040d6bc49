package paging_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kinderudp/paging-go"
)

var _ = Describe("Result assembly", func() {
	var table paging.TableRef

	BeforeEach(func() {
		table = paging.TableRef{Database: "udpdb", Schema: "bea", Name: "rea"}
	})

	Describe("Concat", func() {
		It("should keep page order and row order within pages", func() {
			pages := []*paging.Page[int]{
				{Nodes: []int{1, 2, 3}, Index: 0},
				{Nodes: []int{4, 5}, Index: 1},
				{Nodes: []int{6}, Index: 2},
			}

			Expect(paging.Concat(pages)).To(Equal([]int{1, 2, 3, 4, 5, 6}))
		})

		It("should skip nil pages", func() {
			pages := []*paging.Page[int]{{Nodes: []int{1}}, nil, {Nodes: []int{2}}}

			Expect(paging.Concat(pages)).To(Equal([]int{1, 2}))
		})

		It("should return an empty slice for no pages", func() {
			out := paging.Concat[int](nil)
			Expect(out).ToNot(BeNil())
			Expect(out).To(BeEmpty())
		})
	})

	Describe("BuildResultSet", func() {
		columns := []paging.Column{
			{Name: "id", DatabaseType: "INT", Ordinal: 1},
			{Name: "name", DatabaseType: "NVARCHAR", Nullable: true, Ordinal: 2},
		}

		It("should copy rows, columns and counters", func() {
			result := &paging.Result[paging.Row]{
				Pages: []*paging.Page[paging.Row]{
					{Nodes: []paging.Row{{int64(1), "a"}}},
					{Nodes: []paging.Row{{int64(2), nil}}},
				},
				Nodes:      []paging.Row{{int64(1), "a"}, {int64(2), nil}},
				TotalCount: 2,
			}

			rs, err := paging.BuildResultSet(table, "id", columns, result)
			Expect(err).ToNot(HaveOccurred())

			Expect(rs.Table).To(Equal(table))
			Expect(rs.OrderColumn).To(Equal("id"))
			Expect(rs.RowCount()).To(Equal(2))
			Expect(rs.Pages).To(Equal(2))
			Expect(rs.TotalCount).To(Equal(int64(2)))
			Expect(rs.ColumnNames()).To(Equal([]string{"id", "name"}))
			Expect(rs.Rows[1][1]).To(BeNil())
		})

		It("should reject rows whose width does not match the columns", func() {
			result := &paging.Result[paging.Row]{
				Nodes: []paging.Row{{int64(1), "a"}, {int64(2)}},
			}

			_, err := paging.BuildResultSet(table, "id", columns, result)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("row 1 has 1 values"))
		})

		It("should return an empty result set for a nil result", func() {
			rs, err := paging.BuildResultSet(table, "id", columns, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(rs.Rows).To(BeEmpty())
			Expect(rs.RowCount()).To(Equal(0))
		})
	})

	Describe("ResultSet", func() {
		It("should find columns case-insensitively", func() {
			rs := &paging.ResultSet{Columns: []paging.Column{{Name: "ID"}, {Name: "Name"}}}

			Expect(rs.ColumnIndex("name")).To(Equal(1))
			Expect(rs.ColumnIndex("id")).To(Equal(0))
			Expect(rs.ColumnIndex("missing")).To(Equal(-1))
		})

		It("should report zero rows for a nil result set", func() {
			var rs *paging.ResultSet
			Expect(rs.RowCount()).To(Equal(0))
		})
	})
})
