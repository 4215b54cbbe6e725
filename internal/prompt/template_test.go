package prompt_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"neoito.app/leadgen/internal/prompt"
)

var _ = Describe("Template", func() {
	DescribeTable("formats placeholders",
		func(text string, vars map[string]string, expected string) {
			t, err := prompt.NewTemplate(prompt.RoleHuman, text)
			Expect(err).NotTo(HaveOccurred())

			out, err := t.Format(vars)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(expected))
		},
		Entry("no placeholders", "Plain text", nil, "Plain text"),
		Entry("single placeholder", "Product: {product}", map[string]string{"product": "Widget"}, "Product: Widget"),
		Entry("repeated placeholder", "{product} and {product}", map[string]string{"product": "X"}, "X and X"),
		Entry("escaped braces", "{{literal}} {product}", map[string]string{"product": "P"}, "{literal} P"),
		Entry("values are not re-scanned", "{product}", map[string]string{"product": "{customers}"}, "{customers}"),
		Entry("unused vars are ignored", "hello", map[string]string{"product": "P"}, "hello"),
	)

	DescribeTable("rejects malformed templates",
		func(text string) {
			_, err := prompt.NewTemplate(prompt.RoleAI, text)
			Expect(errors.Is(err, prompt.ErrMalformedTemplate)).To(BeTrue())
		},
		Entry("unclosed brace", "Product: {product"),
		Entry("empty placeholder", "Product: {}"),
	)

	It("rejects empty templates", func() {
		_, err := prompt.NewTemplate(prompt.RoleSystem, "  \n")
		Expect(errors.Is(err, prompt.ErrEmptyTemplate)).To(BeTrue())
	})

	It("reports a missing variable", func() {
		t, err := prompt.NewTemplate(prompt.RoleHuman, "Customers: {customers}")
		Expect(err).NotTo(HaveOccurred())

		_, err = t.Format(map[string]string{"product": "Widget"})
		Expect(errors.Is(err, prompt.ErrMissingVariable)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("customers"))
	})

	It("lists variables in order of first use", func() {
		t, err := prompt.NewTemplate(prompt.RoleHuman, "{customers} buy {product} for {customers}")
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Variables()).To(Equal([]string{"customers", "product"}))
	})
})
