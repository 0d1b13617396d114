//go:build !windows

package notify

import "time"

const audioSupported = false

func systemBeep(int, time.Duration) error { return errAudioUnsupported }
