// Package capi implements the native capability contract by forwarding to the
// LLVM-C API through cgo.  It is only compiled with the `llvm` build tag, in
// which case it registers itself as the "native" backend:
//
//	CGO_CFLAGS="$(llvm-config --cflags)" CGO_LDFLAGS="$(llvm-config --ldflags --libs core)" \
//		go build -tags llvm ./...
package capi

// BackendName is the name capi is registered under.
const BackendName = "native"
