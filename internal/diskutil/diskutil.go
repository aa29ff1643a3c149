// Package diskutil reports disk usage of the orchestrator's temporary
// directory for debug logging, using the same directory-walk library the
// teacher repo links for local filesystem traversal.
package diskutil

import (
	"os"

	"github.com/karrick/godirwalk"
)

// Usage walks dir and returns the total size in bytes of every regular
// file beneath it.
func Usage(dir string) (int64, error) {
	var total int64
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			info, err := os.Stat(osPathname)
			if err != nil {
				return err
			}
			total += info.Size()
			return nil
		},
	})
	return total, err
}
