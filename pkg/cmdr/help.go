// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdr

import (
	"fmt"
	"strings"
)

// Help renders a help page for the grammar: the usage line followed by one
// section per kind of declaration. Sections with no entries are omitted.
func (u *Usage) Help() string {
	var b strings.Builder

	b.WriteString("USAGE:\n")
	b.WriteString(fmt.Sprintf("    %s\n", strings.TrimSpace(u.str)))

	if len(u.arguments) > 0 {
		b.WriteString("\nARGUMENTS:\n")
		for _, a := range u.arguments {
			writeHelpLine(&b, a.usage(), a.NormalizedName, a.Multiple)
		}
	}

	if len(u.flags) > 0 {
		b.WriteString("\nFLAGS:\n")
		for _, f := range u.flags {
			writeHelpLine(&b, f.usage(), f.NormalizedName, false)
		}
	}

	if len(u.options) > 0 {
		b.WriteString("\nOPTIONS:\n")
		for _, o := range u.options {
			writeHelpLine(&b, o.usage(), o.NormalizedName, o.Multiple())
		}
	}

	return b.String()
}

func writeHelpLine(b *strings.Builder, usage, key string, multiple bool) {
	b.WriteString(fmt.Sprintf("%-32s %s", "    "+usage, key))
	if multiple {
		b.WriteString(" (repeatable)")
	}
	b.WriteString("\n")
}

func (a Argument) usage() string {
	s := "<" + a.Name + ">"
	if a.Multiple {
		s += "..."
	}
	return s
}

func (f Flag) usage() string {
	switch {
	case f.Alias != "" && f.Alias != f.Name:
		return fmt.Sprintf("-%s, --%s", f.Alias, f.Name)
	case f.Alias != "":
		return "-" + f.Alias
	}
	return "--" + f.Name
}

func (o Option) usage() string {
	return o.Flag.usage() + "=" + o.Arg.usage()
}
