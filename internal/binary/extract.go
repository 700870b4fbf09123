package binary

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Extractor unpacks release archives.
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks archivePath into destDir using the given format.
func (e *Extractor) Extract(format ArchiveFormat, archivePath, destDir string) error {
	switch format {
	case FormatTarGz:
		return e.ExtractTarGz(archivePath, destDir)
	case FormatZip:
		return e.ExtractZip(archivePath, destDir)
	default:
		return fmt.Errorf("unsupported archive format %q", format)
	}
}

// ExtractTarGz extracts a .tar.gz archive to a destination directory.
// Entries other than directories, regular files and symlinks are skipped.
// Nothing is ever written through a symlink created by the archive.
func (e *Extractor) ExtractTarGz(archivePath, destDir string) error {
	// Open archive file
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	// Create gzip reader
	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}
	root := filepath.Clean(destDir)

	// Extract files
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		target, err := entryPath(destDir, header.Name)
		if err != nil {
			return err
		}
		if target == "" {
			continue
		}
		if err := checkNoSymlinks(root, target); err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := writeEntry(target, os.FileMode(header.Mode).Perm(), tarReader); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("create parent dir for %s: %w", target, err)
			}
			if err := checkLinkTarget(root, target, header.Linkname); err != nil {
				return fmt.Errorf("illegal symlink target: %s -> %s: %w", header.Name, header.Linkname, err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("create symlink %s: %w", target, err)
			}

		default:
			continue
		}
	}

	return nil
}

// ExtractZip extracts a .zip archive to a destination directory.
func (e *Extractor) ExtractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}
	root := filepath.Clean(destDir)

	for _, file := range reader.File {
		target, err := entryPath(destDir, file.Name)
		if err != nil {
			return err
		}
		if target == "" {
			continue
		}
		if err := checkNoSymlinks(root, target); err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", file.Name, err)
		}
		err = writeEntry(target, file.Mode().Perm(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

// entryPath joins an archive entry name onto destDir and rejects names that
// would escape it. The archive root itself ("./") yields "".
func entryPath(destDir, name string) (string, error) {
	root := filepath.Clean(destDir)
	target := filepath.Join(root, filepath.FromSlash(name))
	if target == root {
		return "", nil
	}
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return target, nil
}

// checkNoSymlinks fails when target, or any existing directory between root
// and target, is a symlink.
func checkNoSymlinks(root, target string) error {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return fmt.Errorf("illegal file path: %s", target)
	}

	current := root
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", current, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("illegal file path through symlink: %s", current)
		}
	}
	return nil
}

// checkLinkTarget walks linkname from the directory holding link and fails
// if the walk leaves root or passes through another symlink.
func checkLinkTarget(root, link, linkname string) error {
	if filepath.IsAbs(linkname) || strings.HasPrefix(linkname, "/") {
		return errors.New("absolute target")
	}

	current := filepath.Dir(link)
	for _, part := range strings.Split(filepath.ToSlash(linkname), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			if current == root {
				return errors.New("target escapes destination")
			}
			current = filepath.Dir(current)
		default:
			current = filepath.Join(current, part)
			if info, err := os.Lstat(current); err == nil && info.Mode()&os.ModeSymlink != 0 {
				return errors.New("target passes through a symlink")
			}
		}
	}
	return nil
}

func writeEntry(target string, mode os.FileMode, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}
	if mode == 0 {
		mode = 0644
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}
	return nil
}

// SetExecutable adds execute permission to a file. It is a no-op on Windows.
func SetExecutable(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if err := os.Chmod(path, info.Mode()|0111); err != nil {
		return fmt.Errorf("chmod file: %w", err)
	}

	return nil
}
