// Package zero provides best-effort secret scrubbing. Go gives no hard
// guarantee a compiler won't hoist a copy of a byte slice before this
// runs, but zeroing explicitly beats letting the slice go out of scope
// with the secret still in it.
package zero

// Bytes overwrites every byte of b with zero.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// All zeroizes every slice given, in order.
func All(bs ...[]byte) {
	for _, b := range bs {
		Bytes(b)
	}
}
