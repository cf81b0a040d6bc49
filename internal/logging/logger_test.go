package logging_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/kinderudp/paging-go/internal/logging"
)

var _ = Describe("Setup", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	AfterEach(func() {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	It("should default to info level on stderr", func() {
		cfg := logging.DefaultConfig()

		Expect(cfg.Level).To(Equal(logging.LevelInfo))
		Expect(cfg.Pretty).To(BeFalse())
		Expect(cfg.Output).ToNot(BeNil())
	})

	It("should write timestamped JSON lines", func() {
		logger := logging.Setup(logging.Config{Level: logging.LevelInfo, Output: buf})

		logger.Info().Str("table", "dbo.orders").Msg("Fetching table")

		var entry map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
		Expect(entry).To(HaveKeyWithValue("message", "Fetching table"))
		Expect(entry).To(HaveKeyWithValue("table", "dbo.orders"))
		Expect(entry).To(HaveKey("time"))
	})

	It("should drop messages below the level", func() {
		logger := logging.Setup(logging.Config{Level: logging.LevelWarn, Output: buf})

		logger.Info().Msg("hidden")
		Expect(buf.Len()).To(BeZero())

		logger.Warn().Msg("shown")
		Expect(buf.String()).To(ContainSubstring("shown"))
	})

	It("should tag component loggers", func() {
		logging.Setup(logging.Config{Level: logging.LevelDebug, Output: buf})

		logger := logging.NewLogger("tablefetch")
		logger.Debug().Msg("hello")

		Expect(buf.String()).To(ContainSubstring(`"component":"tablefetch"`))
	})

	It("should write console output when pretty", func() {
		logger := logging.Setup(logging.Config{Level: logging.LevelInfo, Pretty: true, Output: buf})

		logger.Info().Msg("pretty line")

		Expect(buf.String()).To(ContainSubstring("pretty line"))
		Expect(buf.String()).ToNot(HavePrefix("{"))
	})
})

var _ = DescribeTable("ParseLevel",
	func(name string, expected zerolog.Level) {
		Expect(logging.ParseLevel(logging.Level(name))).To(Equal(expected))
	},
	Entry("debug", "debug", zerolog.DebugLevel),
	Entry("upper case", "ERROR", zerolog.ErrorLevel),
	Entry("warning alias", "warning", zerolog.WarnLevel),
	Entry("unknown", "chatty", zerolog.InfoLevel),
	Entry("empty", "", zerolog.InfoLevel),
)
