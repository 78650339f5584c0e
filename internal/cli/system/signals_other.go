//go:build !unix

package system

import "os"

func foregroundSignals() []os.Signal {
	return nil
}
