package main

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cmdguard/cmdguard/issue"
)

var defaultIssue = issue.Issue{
	File:       "/home/src/project/run.go",
	Line:       "1",
	Col:        "1",
	RuleID:     "CG101",
	What:       "test",
	Confidence: issue.Medium,
	Severity:   issue.High,
	Code:       "1: testcode",
	Cwe:        issue.GetCweByRule("CG101"),
}

func createIssue() issue.Issue {
	return defaultIssue
}

func firstIsGreater(less, greater *issue.Issue) {
	slice := []*issue.Issue{less, greater}

	sortIssues(slice)

	ExpectWithOffset(1, slice[0]).To(Equal(greater))
}

var _ = Describe("Sorting by Severity", func() {
	It("sorts by severity", func() {
		less := createIssue()
		less.Severity = issue.Low
		greater := createIssue()
		greater.Severity = issue.High
		firstIsGreater(&less, &greater)
	})

	Context("Severity is same", func() {
		It("sorts by What", func() {
			less := createIssue()
			less.What = "test1"
			greater := createIssue()
			greater.What = "test2"
			firstIsGreater(&less, &greater)
		})
	})

	Context("Severity and What is same", func() {
		It("sorts by File", func() {
			less := createIssue()
			less.File = "test1"
			greater := createIssue()
			greater.File = "test2"
			firstIsGreater(&less, &greater)
		})
	})

	Context("Severity, What and File is same", func() {
		It("sorts by line number", func() {
			less := createIssue()
			less.Line = "9"
			greater := createIssue()
			greater.Line = "10-12"
			firstIsGreater(&less, &greater)
		})
	})

	It("keeps the order of equal issues", func() {
		first := createIssue()
		second := createIssue()
		slice := []*issue.Issue{&first, &second}
		sortIssues(slice)
		Expect(slice[0]).To(BeIdenticalTo(&first))
		Expect(slice[1]).To(BeIdenticalTo(&second))
	})
})

var _ = Describe("extractLineNumber", func() {
	It("should extract line number from single line", func() {
		Expect(extractLineNumber("42")).To(Equal(42))
	})

	It("should extract start line from range", func() {
		Expect(extractLineNumber("10-20")).To(Equal(10))
	})

	It("should handle invalid line number", func() {
		Expect(extractLineNumber("invalid")).To(Equal(0))
		Expect(extractLineNumber("")).To(Equal(0))
	})
})
