package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Target instruction forms.
const (
	opRead     = ">"
	opWrite    = "<"
	opNegate   = "*"
	opLoad     = "-" // read-and-clear, preceded by an optional index
	opStore    = "+" // store/push, preceded by an optional index
	opBreak    = "."
	opCall     = " " // trailing space after a function name
	litTrue    = "[,*]"
	litFalse   = "[*]"
	litNewline = `\n`
)

// EscapeLiteral escapes text for a {literal} instruction: backslash and
// braces are backslash-escaped, control characters use \n, \t, \r or \xNN.
func EscapeLiteral(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\\', '{', '}':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

// UnescapeLiteral reverses EscapeLiteral.
func UnescapeLiteral(escaped string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(escaped) {
			return "", fmt.Errorf("trailing backslash in literal %q", escaped)
		}
		switch escaped[i] {
		case '\\', '{', '}':
			b.WriteByte(escaped[i])
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'x':
			if i+2 >= len(escaped) {
				return "", fmt.Errorf("short \\x escape in literal %q", escaped)
			}
			v, err := strconv.ParseUint(escaped[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape in literal %q", escaped)
			}
			b.WriteByte(byte(v))
			i += 2
		default:
			return "", fmt.Errorf("unknown escape \\%c in literal %q", escaped[i], escaped)
		}
	}
	return b.String(), nil
}
