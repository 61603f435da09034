//go:build !unix

package replay

import "os"

func controlSignals() map[os.Signal]controlAction {
	return nil
}
