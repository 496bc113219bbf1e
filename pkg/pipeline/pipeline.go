// Package pipeline orchestrates the two compound, user-facing operations:
// compressing a path (file or directory) and decompressing a path
// (detecting, after the fact, whether the result is itself an archive).
// It owns the temp-file lifecycle for both.
package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"huffarc/pkg/archive"
	"huffarc/pkg/filecodec"
	"huffarc/pkg/herrors"
	"huffarc/pkg/options"
)

// archiveTempSuffix and decompressTempSuffix match the reference
// convention of deriving a predictable sibling temp path rather than using
// a random name, so a crashed run leaves an identifiable artifact behind.
const (
	archiveTempSuffix    = ".arch_temp"
	decompressTempSuffix = ".tmp"
)

// CompressPath compresses inputPath (a file or a directory) into
// outputPath. If inputPath is a directory, it is first packed into an
// intermediate archive via pkg/archive, which is removed on every exit
// path once FileCodec has consumed it.
func CompressPath(inputPath, outputPath string, opts options.Options) (*filecodec.Stats, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, herrors.New(herrors.FileNotFound, err)
	}

	effectiveInput := inputPath
	if info.IsDir() {
		tempArchive := tempPath(inputPath, archiveTempSuffix, opts.TempDir)
		opts.Logf(options.LogInfo, "packing directory %s into intermediate archive %s", inputPath, tempArchive)
		defer os.Remove(tempArchive)
		// Progress covers only the encoding pass, so the archive step's
		// per-entry percentages are not forwarded.
		packOpts := opts
		packOpts.Progress = nil
		if err := archive.Pack(inputPath, tempArchive, packOpts); err != nil {
			opts.Logf(options.LogError, "archiving %s failed: %v", inputPath, err)
			return nil, herrors.New(herrors.CompressionFailed, err)
		}
		effectiveInput = tempArchive
	}

	stats, err := filecodec.Compress(effectiveInput, outputPath, opts)
	if err != nil {
		opts.Logf(options.LogError, "compressing %s failed: %v", inputPath, err)
		return nil, herrors.New(herrors.CompressionFailed, err)
	}
	return stats, nil
}

// DecompressPath decompresses inputPath into a temp file, then inspects
// its first 8 bytes: if they are the archive magic, the temp is extracted
// as a directory archive into outputPath; otherwise the temp is renamed
// into outputPath as a plain file. The temp is removed on every exit path.
func DecompressPath(inputPath, outputPath string, opts options.Options) (*filecodec.Result, error) {
	temp := tempPath(outputPath, decompressTempSuffix, opts.TempDir)

	result, err := filecodec.Decompress(inputPath, temp, opts)
	if err != nil {
		opts.Logf(options.LogError, "decompressing %s failed: %v", inputPath, err)
		os.Remove(temp)
		return nil, herrors.New(herrors.DecompressionFailed, err)
	}

	isArchive, err := hasArchiveMagic(temp)
	if err != nil {
		os.Remove(temp)
		return nil, herrors.New(herrors.DecompressionFailed, err)
	}

	if isArchive {
		if err := os.RemoveAll(outputPath); err != nil && !os.IsNotExist(err) {
			os.Remove(temp)
			return nil, herrors.New(herrors.DecompressionFailed, err)
		}
		// Progress covers only the decoding pass, so the extraction step's
		// per-entry percentages are not forwarded.
		extractOpts := opts
		extractOpts.Progress = nil
		extractErr := archive.Extract(temp, outputPath, extractOpts)
		os.Remove(temp)
		if extractErr != nil {
			return nil, herrors.New(herrors.DecompressionFailed, extractErr)
		}
		return result, nil
	}

	if err := os.RemoveAll(outputPath); err != nil && !os.IsNotExist(err) {
		os.Remove(temp)
		return nil, herrors.New(herrors.DecompressionFailed, err)
	}
	if err := os.Rename(temp, outputPath); err != nil {
		os.Remove(temp)
		return nil, herrors.New(herrors.DecompressionFailed, err)
	}
	return result, nil
}

// hasArchiveMagic peeks the first len(archive.Magic) bytes of path.
func hasArchiveMagic(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, len(archive.Magic))
	n, err := io.ReadFull(f, buf)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return n == len(archive.Magic) && string(buf) == archive.Magic, nil
}

// tempPath derives a sibling temp path for target, optionally rooted under
// overrideDir instead of target's own directory.
func tempPath(target, suffix, overrideDir string) string {
	if overrideDir == "" {
		return target + suffix
	}
	return filepath.Join(overrideDir, filepath.Base(target)+suffix)
}
