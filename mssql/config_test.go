package mssql_test

import (
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kinderudp/paging-go/mssql"
)

var _ = Describe("Config", func() {
	Describe("Validate", func() {
		It("should require a server", func() {
			err := mssql.Config{}.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid sql server config"))
		})

		It("should require a password with a user", func() {
			cfg := mssql.Config{Server: "db.local", User: "reader"}

			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should reject an unknown encrypt mode", func() {
			cfg := mssql.Config{Server: "db.local", Encrypt: "maybe"}

			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should accept integrated authentication", func() {
			cfg := mssql.Config{Server: `udpdev.ad.rice.edu\udp`}

			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Describe("HostInstance", func() {
		It("should split an embedded instance", func() {
			host, instance := mssql.Config{Server: `udpdev.ad.rice.edu\udp`}.HostInstance()

			Expect(host).To(Equal("udpdev.ad.rice.edu"))
			Expect(instance).To(Equal("udp"))
		})

		It("should prefer an explicit instance", func() {
			host, instance := mssql.Config{Server: `db.local\a`, Instance: "b"}.HostInstance()

			Expect(host).To(Equal("db.local"))
			Expect(instance).To(Equal("b"))
		})
	})

	Describe("DSN", func() {
		It("should render a sqlserver URL", func() {
			cfg := mssql.Config{
				Server:                 `udpdev.ad.rice.edu\udp`,
				Database:               "UDP",
				Encrypt:                "disable",
				TrustServerCertificate: true,
				DialTimeout:            15 * time.Second,
			}

			u, err := url.Parse(cfg.DSN())
			Expect(err).ToNot(HaveOccurred())

			Expect(u.Scheme).To(Equal("sqlserver"))
			Expect(u.Host).To(Equal("udpdev.ad.rice.edu"))
			Expect(u.Path).To(Equal("/udp"))
			Expect(u.User).To(BeNil())

			q := u.Query()
			Expect(q.Get("database")).To(Equal("UDP"))
			Expect(q.Get("encrypt")).To(Equal("disable"))
			Expect(q.Get("TrustServerCertificate")).To(Equal("true"))
			Expect(q.Get("dial timeout")).To(Equal("15"))
			Expect(q.Get("app name")).To(Equal("udp-paging"))
		})

		It("should include credentials and port", func() {
			cfg := mssql.Config{Server: "db.local", Port: 1433, User: "sa", Password: "p@ss word"}

			u, err := url.Parse(cfg.DSN())
			Expect(err).ToNot(HaveOccurred())

			Expect(u.Host).To(Equal("db.local:1433"))
			Expect(u.User.Username()).To(Equal("sa"))
			pass, _ := u.User.Password()
			Expect(pass).To(Equal("p@ss word"))
		})

		It("should switch databases without touching the original", func() {
			base := mssql.Config{Server: "db.local", Database: "A"}
			other := base.WithDatabase("B")

			Expect(base.Database).To(Equal("A"))
			Expect(other.Database).To(Equal("B"))
		})
	})
})
