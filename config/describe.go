package config

import (
	"fmt"
	"strings"

	"github.com/c360/semfilter/option"
)

// proposer is implemented by options that suggest an example value
type proposer interface {
	Proposal() string
}

// Describe renders a commented configuration template listing every option
// of c with its type, required flag, description and default or proposal.
// Lines use the ';' comment marker of INI-style files.
func Describe(c Configurable) string {
	base := c.Base()
	var b strings.Builder

	fmt.Fprintf(&b, "[%s]\n", base.Name())
	if base.Description() != "" {
		for _, line := range strings.Split(base.Description(), "\n") {
			fmt.Fprintf(&b, "; %s\n", line)
		}
	}
	for _, opt := range base.Options() {
		b.WriteString(";\n")
		describeOption(&b, opt)
	}
	return b.String()
}

func describeOption(b *strings.Builder, opt option.Option) {
	name := opt.Name()
	fmt.Fprintf(b, "; %s\n", name)
	fmt.Fprintf(b, "; %s\n", strings.Repeat("-", len(name)))
	b.WriteString(";\n")
	fmt.Fprintf(b, "; data type: %s\n", opt.TypeName())
	b.WriteString(";\n")

	marker := "[optional] "
	if opt.Required() {
		marker = "[REQUIRED] "
	}
	for _, line := range strings.Split(marker+opt.Description(), "\n") {
		fmt.Fprintf(b, "; %s\n", line)
	}
	b.WriteString(";\n")

	if p, ok := opt.(proposer); ok && p.Proposal() != "" {
		if _, hasDefault := opt.DefaultText(); !hasDefault {
			fmt.Fprintf(b, ";%s = <UNDEFINED>, proposed value: %s\n", name, p.Proposal())
			return
		}
	}
	def, ok := opt.DefaultText()
	if !ok {
		def = "<UNDEFINED>"
	}
	fmt.Fprintf(b, ";%s = %s\n", name, def)
}
