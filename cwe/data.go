package cwe

var data = map[string]*Weakness{
	"78": {
		ID:          "78",
		Description: "The software constructs all or part of an OS command using externally-influenced input from an upstream component, but it does not neutralize or incorrectly neutralizes special elements that could modify the intended OS command when it is sent to a downstream component.",
		Name:        "Improper Neutralization of Special Elements used in an OS Command ('OS Command Injection')",
	},
	"88": {
		ID:          "88",
		Description: "The software constructs a string for a command to executed by a separate component\nin another control sphere, but it does not properly delimit the\nintended arguments, options, or switches within that command string.",
		Name:        "Improper Neutralization of Argument Delimiters in a Command ('Argument Injection')",
	},
	"426": {
		ID:          "426",
		Description: "The product searches for critical resources using an externally-supplied search path that can point to resources that are not under the product's direct control.",
		Name:        "Untrusted Search Path",
	},
}

// Get Retrieves a CWE weakness by it's id
func Get(id string) *Weakness {
	weakness, ok := data[id]
	if !ok || weakness == nil {
		return nil
	}
	w := *weakness
	w.URL = w.SprintURL()
	return &w
}
