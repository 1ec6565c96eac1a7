package turnip

import (
	"github.com/nvlled/mud"
)

// katanaPool recycles the handoff channels of tasks
// whose goroutine has exited. Each scheduler owns one,
// so schedulers on different goroutines never share it.
type katanaPool struct {
	alloc func() *katana
	free  func(*katana)
}

func newKatanaPool(prealloc int) katanaPool {
	pool := mud.NewPool()
	if prealloc > 0 {
		mud.PreAlloc(pool, newKatana, prealloc)
	}
	return katanaPool{
		alloc: func() *katana {
			return mud.Alloc(pool, newKatana)
		},
		free: func(k *katana) {
			mud.Free(pool, k)
		},
	}
}
