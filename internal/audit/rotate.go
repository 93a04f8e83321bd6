package audit

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/toolgate/toolgate/internal/constants"
	"github.com/toolgate/toolgate/internal/logger"
)

// rotateTimestampFormat names rotated files, e.g. audit-20260829T101500.log.zst.
const rotateTimestampFormat = "20060102T150405"

// rotateIfLarge moves the audit log aside and compresses it with zstd
// when it has grown past maxBytes. Entries already written are never
// discarded, only compressed.
func rotateIfLarge(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() < maxBytes {
		return nil
	}

	rotated := fmt.Sprintf("%s.%s", path, time.Now().UTC().Format(rotateTimestampFormat))
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}

	if err := compressFile(rotated); err != nil {
		// The rename already succeeded; the uncompressed rotation stays.
		return fmt.Errorf("failed to compress rotated audit log: %w", err)
	}
	if err := os.Remove(rotated); err != nil {
		return err
	}

	logger.Debug("audit log rotated", "from", path, "to", rotated+".zst")
	return nil
}

// compressFile writes path's content to path.zst using zstd.
func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(path+".zst", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}
	defer dst.Close()

	enc, err := zstd.NewWriter(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
