//go:build !go1.24

package xruntime

import "runtime"

// AddCleanup falls back to SetFinalizer on toolchains without
// runtime.AddCleanup. The finalizer closure must not capture ptr, or the
// object would never become unreachable; only arg is captured.
func AddCleanup[T, S any](ptr *T, cleanup func(S), arg S) {
	runtime.SetFinalizer(ptr, func(ptr *T) {
		cleanup(arg)
	})
}
