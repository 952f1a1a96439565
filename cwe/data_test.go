package cwe_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cmdguard/cmdguard/cwe"
)

var _ = Describe("CWE data", func() {
	Context("when consulting cwe data", func() {
		It("it should retrieves the weakness", func() {
			weakness := cwe.Get("78")
			Expect(weakness).ShouldNot(BeNil())
			Expect(weakness.ID).Should(Equal("78"))
			Expect(weakness.Name).Should(ContainSubstring("OS Command Injection"))
			Expect(weakness.Description).ShouldNot(BeEmpty())
			Expect(weakness.URL).Should(Equal("https://cwe.mitre.org/data/definitions/78.html"))
		})

		It("it should return nil for an unknown weakness", func() {
			Expect(cwe.Get("9999")).Should(BeNil())
		})
	})
})
