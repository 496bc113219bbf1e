// Package archive implements the directory container format: a flat,
// sequential stream of path + content records under an 8-byte magic and
// entry count. It is format-only — it does not compress anything itself,
// which is why its own fields are plain little-endian integers rather than
// anything bit-packed.
package archive

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"huffarc/pkg/herrors"
	"huffarc/pkg/options"
)

// Magic identifies an archive stream. It is checked only after a
// successful decompression — the compressed-file format itself carries no
// magic of its own.
const Magic = "HUFFARCH"

// copyBufSize is the buffer size used when streaming entry content.
const copyBufSize = 4 * 1024

// Entry describes one file to be packed.
type Entry struct {
	RelPath  string // forward-slash relative path within the archive
	FilePath string // absolute/working-directory-relative path on disk
}

// Pack walks dirPath and writes every regular file it finds into a single
// archive stream at outputPath. The walk order is whatever
// filepath.WalkDir gives (lexical, per directory) — the format does not
// require any particular order, and callers must not depend on this one.
func Pack(dirPath, outputPath string, opts options.Options) error {
	entries, err := collectEntries(dirPath)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return herrors.New(herrors.FileCreateError, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if _, err := w.WriteString(Magic); err != nil {
		return herrors.New(herrors.FileWriteError, err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(entries))); err != nil {
		return herrors.New(herrors.FileWriteError, err)
	}

	buf := make([]byte, copyBufSize)
	for i, e := range entries {
		if err := writeEntry(w, e, buf); err != nil {
			return err
		}
		if len(entries) > 0 {
			opts.Report(float64(i+1) / float64(len(entries)) * 100)
		}
	}

	if err := w.Flush(); err != nil {
		return herrors.New(herrors.FileWriteError, err)
	}
	opts.Logf(options.LogInfo, "archived %d files from %s into %s", len(entries), dirPath, outputPath)
	return nil
}

// collectEntries walks dirPath, recording one Entry per regular file with
// its path relative to dirPath, normalized to forward slashes.
func collectEntries(dirPath string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dirPath, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{RelPath: filepath.ToSlash(rel), FilePath: path})
		return nil
	})
	if err != nil {
		return nil, herrors.New(herrors.FileReadError, err)
	}
	return entries, nil
}

// writeEntry streams one file's path header and content into w.
func writeEntry(w io.Writer, e Entry, buf []byte) error {
	pathBytes := []byte(e.RelPath)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(pathBytes))); err != nil {
		return herrors.New(herrors.FileWriteError, err)
	}
	if _, err := w.Write(pathBytes); err != nil {
		return herrors.New(herrors.FileWriteError, err)
	}

	info, err := os.Stat(e.FilePath)
	if err != nil {
		return herrors.New(herrors.FileReadError, err)
	}
	size := uint64(info.Size())
	if err := binary.Write(w, binary.LittleEndian, size); err != nil {
		return herrors.New(herrors.FileWriteError, err)
	}

	f, err := os.Open(e.FilePath)
	if err != nil {
		return herrors.New(herrors.FileReadError, err)
	}
	defer f.Close()

	if _, err := io.CopyBuffer(w, io.LimitReader(f, int64(size)), buf); err != nil {
		return herrors.New(herrors.FileWriteError, err)
	}
	return nil
}

// Extract reads an archive stream from archivePath and recreates its files
// under outputDir, creating parent directories as needed.
func Extract(archivePath, outputDir string, opts options.Options) error {
	in, err := os.Open(archivePath)
	if err != nil {
		return herrors.New(herrors.FileNotFound, err)
	}
	defer in.Close()

	r := bufio.NewReader(in)

	magicBuf := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magicBuf); err != nil {
		return herrors.New(herrors.InvalidFormat, err)
	}
	if string(magicBuf) != Magic {
		return herrors.Newf(herrors.InvalidFormat, "missing archive magic in %s", archivePath)
	}

	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return herrors.New(herrors.InvalidFormat, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return herrors.New(herrors.FileCreateError, err)
	}

	buf := make([]byte, copyBufSize)
	for i := uint64(0); i < count; i++ {
		if err := extractEntry(r, outputDir, buf); err != nil {
			return err
		}
		if count > 0 {
			opts.Report(float64(i+1) / float64(count) * 100)
		}
	}

	opts.Logf(options.LogInfo, "extracted %d files from %s into %s", count, archivePath, outputDir)
	return nil
}

// extractEntry reads one path+content record and writes it under
// outputDir, rejecting any path that would resolve outside outputDir.
func extractEntry(r *bufio.Reader, outputDir string, buf []byte) error {
	var pathLen uint64
	if err := binary.Read(r, binary.LittleEndian, &pathLen); err != nil {
		return herrors.New(herrors.InvalidFormat, err)
	}
	pathBytes := make([]byte, pathLen)
	if _, err := io.ReadFull(r, pathBytes); err != nil {
		return herrors.New(herrors.InvalidFormat, err)
	}
	relPath := string(pathBytes)

	var contentLen uint64
	if err := binary.Read(r, binary.LittleEndian, &contentLen); err != nil {
		return herrors.New(herrors.InvalidFormat, err)
	}

	destPath, err := safeJoin(outputDir, relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return herrors.New(herrors.FileCreateError, err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return herrors.New(herrors.FileCreateError, err)
	}
	defer f.Close()

	if _, err := io.CopyBuffer(f, io.LimitReader(r, int64(contentLen)), buf); err != nil {
		return herrors.New(herrors.FileWriteError, err)
	}
	return nil
}

// safeJoin joins rel onto root after verifying it cannot escape root: no
// absolute path, and no ".." segment survives filepath.Clean.
func safeJoin(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", herrors.Newf(herrors.InvalidFormat, "archive entry path %q is absolute", rel)
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", herrors.Newf(herrors.InvalidFormat, "archive entry path %q escapes the output directory", rel)
	}
	return filepath.Join(root, cleaned), nil
}
