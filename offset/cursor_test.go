package offset_test

import (
	"encoding/base64"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kinderudp/paging-go/offset"
)

var _ = Describe("Cursor Encoding/Decoding", func() {
	It("should be able to encode and decode the correct offset based cursor", func() {
		offsetValue := 34

		cursor := offset.EncodeCursor(offsetValue)
		Expect(cursor).To(Equal("Y3Vyc29yOm9mZnNldDozNA=="))

		Expect(offset.DecodeCursor(&cursor)).To(Equal(offsetValue))
	})

	It("should handle nil cursor", func() {
		Expect(offset.DecodeCursor(nil)).To(Equal(0))
	})

	It("should handle invalid cursor", func() {
		invalid := "invalid-cursor"
		Expect(offset.DecodeCursor(&invalid)).To(Equal(0))
	})

	It("should reject a negative offset", func() {
		negative := base64.URLEncoding.EncodeToString([]byte("cursor:offset:-5"))
		Expect(offset.DecodeCursor(&negative)).To(Equal(0))
	})

	It("should reject a cursor with the wrong prefix", func() {
		other := base64.URLEncoding.EncodeToString([]byte("cursor:keyset:10"))
		Expect(offset.DecodeCursor(&other)).To(Equal(0))
	})

	It("should round-trip offsets beyond 32 bits", func() {
		cursor := offset.EncodeCursor(5_000_000_000)
		Expect(offset.DecodeCursor(&cursor)).To(Equal(5_000_000_000))
	})

	It("should treat injection attempts as the start of the table", func() {
		for _, malicious := range []string{
			"'; DROP TABLE users; --",
			"1' OR '1'='1",
			"1; DELETE FROM users WHERE id=1",
			base64.URLEncoding.EncodeToString([]byte("cursor:offset:1; DROP TABLE t")),
			base64.URLEncoding.EncodeToString([]byte("cursor:offset:0 OR 1=1")),
		} {
			Expect(offset.DecodeCursor(&malicious)).To(Equal(0), malicious)
		}
	})
})
