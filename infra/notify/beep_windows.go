//go:build windows

package notify

import (
	"time"

	"golang.org/x/sys/windows"
)

const audioSupported = true

var procBeep = windows.NewLazySystemDLL("kernel32.dll").NewProc("Beep")

func systemBeep(freq int, d time.Duration) error {
	if err := procBeep.Find(); err != nil {
		return err
	}
	r, _, err := procBeep.Call(uintptr(freq), uintptr(d.Milliseconds()))
	if r == 0 {
		return err
	}
	return nil
}
