//go:build unix

package fileutil

import (
	"io/fs"
	"os"
	"syscall"
)

// copyOwner gives path the uid and gid of like. Failures are ignored: an
// unprivileged caller can only keep ownership it already has.
func copyOwner(path string, like fs.FileInfo) {
	st, ok := like.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	_ = os.Chown(path, int(st.Uid), int(st.Gid))
}
