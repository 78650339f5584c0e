//go:build unix

package system

import (
	"os"
	"syscall"
)

// foregroundSignals are the signals that count as the app coming to the
// foreground, e.g. `pkill -USR1 askeza` from a desktop hook.
func foregroundSignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1}
}
