//go:build !unix

package journal

import "os"

// Without flock, single O_APPEND writes are the only guarantee.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
