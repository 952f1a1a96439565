package cwe_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cmdguard/cmdguard/cwe"
)

var _ = Describe("CWE Types", func() {
	Context("when consulting cwe types", func() {
		It("it should retrieves the information and download URIs", func() {
			Expect(cwe.InformationURI).To(Equal("https://cwe.mitre.org/data/published/cwe_v4.4.pdf/"))
			Expect(cwe.DownloadURI).To(Equal("https://cwe.mitre.org/data/xml/cwec_v4.4.xml.zip"))
		})

		It("it should retrieves the weakness ID and URL", func() {
			weakness := &cwe.Weakness{ID: "78"}
			Expect(weakness.SprintID()).To(Equal("CWE-78"))
			Expect(weakness.SprintURL()).To(Equal("https://cwe.mitre.org/data/definitions/78.html"))
		})

		It("it should fall back to a placeholder ID", func() {
			var weakness *cwe.Weakness
			Expect(weakness.SprintID()).To(Equal("CWE-0000"))
		})
	})
})
