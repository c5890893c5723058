// Copyright (c) 2026 The dvdrip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build windows

package sector

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/dvdripgo/dvdrip/dvderr"
)

func init() {
	cssLibraryPath = "css.dll"
}

// windowsCSSLibrary loads the native CSS library with LoadLibrary and
// resolves all five entry points once; a missing symbol converts to
// DecryptionUnavailable immediately.
type windowsCSSLibrary struct {
	dll     *windows.LazyDLL
	openFn  *windows.LazyProc
	closeFn *windows.LazyProc
	seekFn  *windows.LazyProc
	readFn  *windows.LazyProc
	errorFn *windows.LazyProc
}

func newNativeCSSLibrary(path string) (cssLibrary, error) {
	if path == "" {
		path = cssLibraryPath
	}
	dll := windows.NewLazySystemDLL(path)
	if err := dll.Load(); err != nil {
		return nil, &dvderr.DecryptionUnavailable{
			Message: fmt.Sprintf("could not load CSS library %q: %v", path, err),
		}
	}

	lib := &windowsCSSLibrary{
		dll:     dll,
		openFn:  dll.NewProc("open"),
		closeFn: dll.NewProc("close"),
		seekFn:  dll.NewProc("seek"),
		readFn:  dll.NewProc("read"),
		errorFn: dll.NewProc("error"),
	}
	for _, p := range []*windows.LazyProc{lib.openFn, lib.closeFn, lib.seekFn, lib.readFn, lib.errorFn} {
		if err := p.Find(); err != nil {
			return nil, &dvderr.DecryptionUnavailable{
				Message: fmt.Sprintf("CSS library %q missing symbol %q", path, p.Name),
			}
		}
	}
	return lib, nil
}

func (l *windowsCSSLibrary) open(device string) (uintptr, error) {
	cdevice, err := windows.BytePtrFromString(device)
	if err != nil {
		return 0, err
	}
	handle, _, _ := l.openFn.Call(uintptr(unsafe.Pointer(cdevice)))
	if handle == 0 {
		return 0, &dvderr.DecryptionUnavailable{Message: "CSS library refused to open " + device}
	}
	return handle, nil
}

func (l *windowsCSSLibrary) close(handle uintptr) error {
	rc, _, _ := l.closeFn.Call(handle)
	if int32(rc) != 0 {
		return fmt.Errorf("css close failed: rc=%d", int32(rc))
	}
	return nil
}

func (l *windowsCSSLibrary) seek(handle uintptr, sector uint32, flags int) (uint32, error) {
	rc, _, _ := l.seekFn.Call(handle, uintptr(sector), uintptr(flags))
	if int32(rc) < 0 {
		return 0, fmt.Errorf("css seek failed: %s", l.lastError(handle))
	}
	return uint32(rc), nil
}

func (l *windowsCSSLibrary) read(handle uintptr, buf []byte, sectors int, flags int) (int, error) {
	rc, _, _ := l.readFn.Call(handle, uintptr(unsafe.Pointer(&buf[0])), uintptr(sectors), uintptr(flags))
	if int32(rc) < 0 {
		return 0, fmt.Errorf("css read failed: %s", l.lastError(handle))
	}
	return int(rc), nil
}

func (l *windowsCSSLibrary) lastError(handle uintptr) string {
	ptr, _, _ := l.errorFn.Call(handle)
	if ptr == 0 {
		return "unknown error"
	}
	return windows.BytePtrToString((*byte)(unsafe.Pointer(ptr)))
}
