//go:build !linux

package shell

import (
	"sync"

	"golang.design/x/clipboard"
)

var clipboardInit = sync.OnceValue(clipboard.Init)

type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	if err := clipboardInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
