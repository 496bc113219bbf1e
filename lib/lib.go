// Package lib re-exports the pipeline-level compress/decompress entry
// points for callers that want the simple input-path/output-path shape the
// CLI exposes, without pulling in pkg/pipeline, pkg/options, and
// pkg/filecodec directly.
package lib

import (
	"huffarc/pkg/archive"
	"huffarc/pkg/filecodec"
	"huffarc/pkg/options"
	"huffarc/pkg/pipeline"
)

// Magic re-exported from pkg/archive.
const Magic = archive.Magic

// Stats and Result re-exported from pkg/filecodec.
type Stats = filecodec.Stats
type Result = filecodec.Result

// Options, LogLevel re-exported from pkg/options.
type Options = options.Options
type LogLevel = options.LogLevel

const (
	LogInfo  = options.LogInfo
	LogWarn  = options.LogWarn
	LogError = options.LogError
)

// Compress is a wrapper around pipeline.CompressPath.
func Compress(input, output string, opts Options) (*Stats, error) {
	return pipeline.CompressPath(input, output, opts)
}

// Decompress is a wrapper around pipeline.DecompressPath.
func Decompress(input, output string, opts Options) (*Result, error) {
	return pipeline.DecompressPath(input, output, opts)
}
