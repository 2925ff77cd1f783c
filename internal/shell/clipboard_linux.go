//go:build linux

package shell

import "errors"

// errClipboardUnavailable is returned on platforms without clipboard support.
var errClipboardUnavailable = errors.New("clipboard not available on this platform (Linux without X11)")

type systemClipboard struct{}

func (systemClipboard) WriteText(string) error {
	return errClipboardUnavailable
}
