package store

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// writeArchive bundles everything under the writer's directory (except the
// archive itself) into a zstd-compressed tar file, so a whole scan can be
// shipped off a cluster as one object.
func (w *Writer) writeArchive() error {
	path := filepath.Join(w.dir, w.opts.ArchiveName)

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return err
	}
	tw := tar.NewWriter(zw)

	walkErr := filepath.WalkDir(w.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || p == path {
			return nil
		}

		rel, err := filepath.Rel(w.dir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		src, err := os.Open(p)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, src)
		src.Close()
		return err
	})

	if err := tw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := zw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := f.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	return walkErr
}
