package utils

import (
	"context"

	_ "github.com/rclone/rclone/backend/all"
	"github.com/rclone/rclone/cmd"
	"github.com/rclone/rclone/fs/operations"
	"github.com/rclone/rclone/fs/sync"
)

func MkdirAll(path string) error {
	fdst := cmd.NewFsDir([]string{path})
	return operations.Mkdir(context.Background(), fdst, "")
}

// MoveFiles moves src to dst through rclone, so dst may be a local path or
// any remote rclone knows about. A single file move keeps its name.
func MoveFiles(src string, dst string) error {
	fsrc, srcFileName, fdst := cmd.NewFsSrcFileDst([]string{src, dst})
	if srcFileName == "" {
		return sync.MoveDir(context.Background(), fdst, fsrc, false, false)
	}
	return operations.MoveFile(context.Background(), fdst, fsrc, srcFileName, srcFileName)
}

// CopyFiles is MoveFiles without deleting the source, for the keep-local case.
func CopyFiles(src string, dst string) error {
	fsrc, srcFileName, fdst := cmd.NewFsSrcFileDst([]string{src, dst})
	if srcFileName == "" {
		return sync.CopyDir(context.Background(), fdst, fsrc, false)
	}
	return operations.CopyFile(context.Background(), fdst, fsrc, srcFileName, srcFileName)
}
