// Package key generates the short opaque keys binding one export to its reply.
package key

// Charset lists the characters used in generated keys.
const Charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of characters in a generated key.
// Keys only disambiguate exchanges inside one stream's history,
// so a short token pasted around by hand is preferred over a long one.
const Length = 4

/* Constructors */

// New generates a fresh exchange key.
func New() string {
	return generator.New()
}
