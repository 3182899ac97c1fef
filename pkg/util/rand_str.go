// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	"math/rand"
	"time"
	"unsafe"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Each letter index needs 6 bits, so one 63-bit Int63 call yields up
// to 10 of them
const (
	idxBits = 6
	idxMask = 1<<idxBits - 1
	idxMax  = 63 / idxBits
)

var src = rand.NewSource(time.Now().UnixNano())

// RandStr returns a random letter string of length n. Not
// cryptographic, it only feeds request IDs and object key suffixes
// where speed matters more than entropy
func RandStr(n int) string {
	b := make([]byte, n)
	for i, cache, remain := n-1, src.Int63(), idxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), idxMax
		}
		if idx := int(cache & idxMask); idx < len(letters) {
			b[i] = letters[idx]
			i--
		}
		cache >>= idxBits
		remain--
	}

	return *(*string)(unsafe.Pointer(&b))
}
