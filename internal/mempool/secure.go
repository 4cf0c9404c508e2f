// SPDX-License-Identifier: MIT

package mempool

import "crypto/subtle"

// Wipe zeroes buf. Unlike letting a buffer fall out of scope, the
// contents are gone immediately, which matters for key material.
func Wipe(buf []byte) {
	clear(buf)
}

// EqualConstantTime compares two byte slices in time independent of their
// contents. Slices of different length compare unequal immediately; length
// is not considered secret.
func EqualConstantTime(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
