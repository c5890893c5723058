// Copyright (c) 2026 The dvdrip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package sector

/*
#include <dlfcn.h>
#include <stdlib.h>

typedef void* (*dvdrip_css_open_fn)(const char *device);
typedef int   (*dvdrip_css_close_fn)(void *handle);
typedef int   (*dvdrip_css_seek_fn)(void *handle, int sector, int flags);
typedef int   (*dvdrip_css_read_fn)(void *handle, void *buffer, int sectors, int flags);
typedef const char* (*dvdrip_css_error_fn)(void *handle);

static void *dvdrip_css_call_open(void *fn, const char *device) {
	return ((dvdrip_css_open_fn)fn)(device);
}
static int dvdrip_css_call_close(void *fn, void *handle) {
	return ((dvdrip_css_close_fn)fn)(handle);
}
static int dvdrip_css_call_seek(void *fn, void *handle, int sector, int flags) {
	return ((dvdrip_css_seek_fn)fn)(handle, sector, flags);
}
static int dvdrip_css_call_read(void *fn, void *handle, void *buffer, int sectors, int flags) {
	return ((dvdrip_css_read_fn)fn)(handle, buffer, sectors, flags);
}
static const char *dvdrip_css_call_error(void *fn, void *handle) {
	return ((dvdrip_css_error_fn)fn)(handle);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/dvdripgo/dvdrip/dvderr"
)

func init() {
	cssLibraryPath = "libcss.so"
}

// unixCSSLibrary dlopen's the native CSS library once and resolves all
// five entry points up front; symbol resolution failures convert to
// DecryptionUnavailable immediately, never lazily during a rip.
type unixCSSLibrary struct {
	handle  unsafe.Pointer
	openFn  unsafe.Pointer
	closeFn unsafe.Pointer
	seekFn  unsafe.Pointer
	readFn  unsafe.Pointer
	errorFn unsafe.Pointer
}

func newNativeCSSLibrary(path string) (cssLibrary, error) {
	if path == "" {
		path = cssLibraryPath
	}
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_NOW)
	if handle == nil {
		return nil, &dvderr.DecryptionUnavailable{
			Message: fmt.Sprintf("could not load CSS library %q: %s", path, C.GoString(C.dlerror())),
		}
	}

	lib := &unixCSSLibrary{handle: handle}
	symbols := []struct {
		name string
		dest *unsafe.Pointer
	}{
		{"open", &lib.openFn},
		{"close", &lib.closeFn},
		{"seek", &lib.seekFn},
		{"read", &lib.readFn},
		{"error", &lib.errorFn},
	}
	for _, s := range symbols {
		csym := C.CString(s.name)
		sym := C.dlsym(handle, csym)
		C.free(unsafe.Pointer(csym))
		if sym == nil {
			C.dlclose(handle)
			return nil, &dvderr.DecryptionUnavailable{
				Message: fmt.Sprintf("CSS library %q missing symbol %q", path, s.name),
			}
		}
		*s.dest = sym
	}
	return lib, nil
}

func (l *unixCSSLibrary) open(device string) (uintptr, error) {
	cdevice := C.CString(device)
	defer C.free(unsafe.Pointer(cdevice))
	h := C.dvdrip_css_call_open(l.openFn, cdevice)
	if h == nil {
		return 0, &dvderr.DecryptionUnavailable{Message: "CSS library refused to open " + device}
	}
	return uintptr(h), nil
}

func (l *unixCSSLibrary) close(handle uintptr) error {
	rc := C.dvdrip_css_call_close(l.closeFn, unsafe.Pointer(handle))
	if rc != 0 {
		return fmt.Errorf("css close failed: rc=%d", int(rc))
	}
	return nil
}

func (l *unixCSSLibrary) seek(handle uintptr, sector uint32, flags int) (uint32, error) {
	rc := C.dvdrip_css_call_seek(l.seekFn, unsafe.Pointer(handle), C.int(sector), C.int(flags))
	if rc < 0 {
		return 0, fmt.Errorf("css seek failed: %s", l.lastError(handle))
	}
	return uint32(rc), nil
}

func (l *unixCSSLibrary) read(handle uintptr, buf []byte, sectors int, flags int) (int, error) {
	rc := C.dvdrip_css_call_read(l.readFn, unsafe.Pointer(handle), unsafe.Pointer(&buf[0]), C.int(sectors), C.int(flags))
	if rc < 0 {
		return 0, fmt.Errorf("css read failed: %s", l.lastError(handle))
	}
	return int(rc), nil
}

func (l *unixCSSLibrary) lastError(handle uintptr) string {
	msg := C.dvdrip_css_call_error(l.errorFn, unsafe.Pointer(handle))
	if msg == nil {
		return "unknown error"
	}
	return C.GoString(msg)
}
