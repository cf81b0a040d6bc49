package main

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kinderudp/paging-go/internal/config"
	"github.com/kinderudp/paging-go/internal/logging"
)

var _ = Describe("ParseFlags", func() {
	var stderr *bytes.Buffer

	BeforeEach(func() {
		stderr = &bytes.Buffer{}
	})

	It("should parse a full command line", func() {
		f, err := ParseFlags([]string{
			"-database", "udpdb", "-schema", "bea", "-table", "rea_012021_tables",
			"-page-size", "5000", "-sample", "-format", "xlsx", "-out", "rea.xlsx",
		}, stderr)

		Expect(err).ToNot(HaveOccurred())
		Expect(f.Database).To(Equal("udpdb"))
		Expect(f.Schema).To(Equal("bea"))
		Expect(f.Table).To(Equal("rea_012021_tables"))
		Expect(f.PageSize).To(Equal(5000))
		Expect(f.Sample).To(BeTrue())
		Expect(f.Format).To(Equal("xlsx"))
	})

	It("should default the schema to dbo", func() {
		f, err := ParseFlags([]string{"-database", "UDP", "-table", "orders"}, stderr)

		Expect(err).ToNot(HaveOccurred())
		Expect(f.Schema).To(Equal("dbo"))
		Expect(f.Format).To(Equal("csv"))
	})

	It("should list missing required flags", func() {
		_, err := ParseFlags([]string{"-schema", "dbo"}, stderr)

		Expect(err).To(MatchError("missing required flags: -database, -table"))
	})

	It("should reject unknown flags", func() {
		_, err := ParseFlags([]string{"-bogus"}, stderr)

		Expect(err).To(HaveOccurred())
		Expect(stderr.String()).To(ContainSubstring("Usage: udpfetch"))
	})

	Describe("Apply", func() {
		It("should override only explicit flags", func() {
			cfg := config.Default()
			cfg.SQLServer.Server = "from-file"
			cfg.Paging.PageSize = 2500

			f, err := ParseFlags([]string{"-database", "UDP", "-table", "t", "-log-level", "debug"}, stderr)
			Expect(err).ToNot(HaveOccurred())
			f.Apply(cfg)

			Expect(cfg.SQLServer.Server).To(Equal("from-file"))
			Expect(cfg.Paging.PageSize).To(Equal(2500))
			Expect(cfg.Log.Level).To(Equal(logging.LevelDebug))
		})

		It("should override the server", func() {
			cfg := config.Default()

			f, err := ParseFlags([]string{"-database", "UDP", "-table", "t", "-server", `db\inst`, "-page-size", "10"}, stderr)
			Expect(err).ToNot(HaveOccurred())
			f.Apply(cfg)

			Expect(cfg.SQLServer.Server).To(Equal(`db\inst`))
			Expect(cfg.Paging.PageSize).To(Equal(10000))
		})
	})
})

var _ = Describe("run", func() {
	It("should require an output file for xlsx", func() {
		err := run(context.Background(),
			[]string{"-database", "UDP", "-table", "t", "-format", "xlsx"},
			&bytes.Buffer{}, &bytes.Buffer{})

		Expect(err).To(MatchError("-out is required for xlsx output"))
	})

	It("should reject an unknown format", func() {
		err := run(context.Background(),
			[]string{"-database", "UDP", "-table", "t", "-format", "json"},
			&bytes.Buffer{}, &bytes.Buffer{})

		Expect(err).To(MatchError(ContainSubstring("unsupported format")))
	})

	It("should fail validation without a server", func() {
		GinkgoT().Setenv(config.PasswordEnv, "")

		err := run(context.Background(),
			[]string{"-database", "UDP", "-table", "t"},
			&bytes.Buffer{}, &bytes.Buffer{})

		Expect(err).To(MatchError(ContainSubstring("Server")))
	})
})
