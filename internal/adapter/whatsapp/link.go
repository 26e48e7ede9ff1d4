package whatsapp

import "strings"

const upperhex = "0123456789ABCDEF"

// Link builds https://<host>/<phone>?text=<message> with the message percent
// encoded the way browsers encode a URI component.
func Link(host, phone, message string) string {
	return "https://" + host + "/" + phone + "?text=" + EncodeComponent(message)
}

// EncodeComponent escapes every byte except A-Z a-z 0-9 and -_.!~*'().
// Spaces become %20, never '+'.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
