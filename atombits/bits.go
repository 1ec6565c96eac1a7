package atombits

import "sync/atomic"

type T = atomic.Uint32

func IsSet(bits *T, flag uint32) bool {
	value := bits.Load()
	return value&flag != 0
}

func Set(bits *T, flag uint32) {
	for {
		value := bits.Load()
		if bits.CompareAndSwap(value, value|flag) {
			return
		}
	}
}

func Unset(bits *T, flag uint32) {
	for {
		value := bits.Load()
		if bits.CompareAndSwap(value, value&^flag) {
			return
		}
	}
}

// Swap sets flag and reports whether it was already set.
func Swap(bits *T, flag uint32) bool {
	for {
		value := bits.Load()
		if bits.CompareAndSwap(value, value|flag) {
			return value&flag != 0
		}
	}
}
