package github

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
)

var (
	// ErrNoRootDirectory is returned when an archive has no top-level entry.
	ErrNoRootDirectory = errors.New("failed to find a directory in tarball")

	// ErrUnsafePath is returned for entries or link targets outside the scratch directory.
	ErrUnsafePath = errors.New("archive entry escapes extraction directory")
)

// forEachEntry calls fn for every entry of the gzipped tarball in data.
// fn may read the entry body from tr.
func forEachEntry(data []byte, fn func(hdr *tar.Header, tr *tar.Reader) error) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}
	defer func() { _ = zr.Close() }()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar: %w", err)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

var errStop = errors.New("stop")

// rootName returns the first entry name with no path separator once a
// trailing slash is trimmed. PAX global headers are not entries.
func rootName(data []byte) (string, error) {
	var root string
	err := forEachEntry(data, func(hdr *tar.Header, _ *tar.Reader) error {
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			return nil
		}
		name := strings.TrimSuffix(strings.TrimPrefix(hdr.Name, "./"), "/")
		if name != "" && name != "." && !strings.Contains(name, "/") {
			root = name
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return "", err
	}
	if root == "" {
		return "", ErrNoRootDirectory
	}
	return root, nil
}

func (f *Fetcher) extract(data []byte) (string, error) {
	const op = "extract"

	name, err := rootName(data)
	if err != nil {
		return "", ferrors.Wrap(ferrors.CodeArchiveInvalid, op, err)
	}
	root := filepath.Join(f.scratchDir, name)

	if err := f.fs.RemoveAll(root); err != nil {
		return "", ferrors.Wrap(ferrors.CodeInternal, op, err)
	}

	err = forEachEntry(data, func(hdr *tar.Header, tr *tar.Reader) error {
		return f.writeEntry(hdr, tr)
	})
	if err != nil {
		code := ferrors.CodeArchiveInvalid
		var perr *os.PathError
		if errors.As(err, &perr) {
			code = ferrors.CodeInternal
		}
		return "", ferrors.Wrap(code, op, err)
	}
	return root, nil
}

func (f *Fetcher) writeEntry(hdr *tar.Header, r io.Reader) error {
	if hdr.Typeflag == tar.TypeXGlobalHeader {
		return nil
	}

	target, err := safeJoin(f.scratchDir, hdr.Name)
	if err != nil {
		return err
	}
	mode := os.FileMode(hdr.Mode).Perm()

	switch hdr.Typeflag {
	case tar.TypeDir:
		return f.fs.MkdirAll(target, mode|0o700)

	case tar.TypeReg:
		if err := f.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		out, err := f.fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, r); err != nil {
			_ = out.Close()
			return fmt.Errorf("write %s: %w", hdr.Name, err)
		}
		return out.Close()

	case tar.TypeSymlink:
		if path.IsAbs(hdr.Linkname) {
			return fmt.Errorf("%w: %s -> %s", ErrUnsafePath, hdr.Name, hdr.Linkname)
		}
		if _, err := safeJoin(f.scratchDir, path.Join(path.Dir(hdr.Name), hdr.Linkname)); err != nil {
			return fmt.Errorf("%w: %s -> %s", ErrUnsafePath, hdr.Name, hdr.Linkname)
		}
		if err := f.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return f.fs.Symlink(hdr.Linkname, target)

	default:
		f.logger.Debug("skipping archive entry",
			"name", hdr.Name,
			"type", string(hdr.Typeflag))
		return nil
	}
}

// safeJoin joins a slash-separated archive name onto base, rejecting
// names that resolve outside base.
func safeJoin(base, name string) (string, error) {
	target := filepath.Join(base, filepath.FromSlash(name))
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}
