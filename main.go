package main

import (
	"fmt"
	"os"

	"huffarc/pkg/herrors"
	"huffarc/pkg/options"
	"huffarc/pkg/pipeline"
	"huffarc/pkg/progress"
)

func main() {
	if len(os.Args) != 4 {
		printUsage()
		os.Exit(1)
	}

	mode := os.Args[1]
	input := os.Args[2]
	output := os.Args[3]

	var err error
	switch mode {
	case "-c":
		err = handleCompress(input, output)
	case "-d":
		err = handleDecompress(input, output)
	default:
		fmt.Fprintln(os.Stderr, "Invalid mode:", mode)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  huffarc -c <input_file_or_dir> <compressed_file>")
	fmt.Println("  huffarc -d <compressed_file> <output_file_or_dir>")
}

func handleCompress(input, output string) error {
	reporter := progress.NewReporter(os.Stdout, "compressing "+input, 0)
	opts := options.Options{Logger: reporter.LogFunc(), Progress: reporter.ProgressFunc()}

	stats, err := pipeline.CompressPath(input, output, opts)
	if err != nil {
		return describeError(err)
	}

	fmt.Printf("Compressed %d bytes into %d bytes (%.1f%%), %d distinct symbols, longest code %d bits.\n",
		stats.OriginalSize, stats.CompressedSize, stats.Ratio()*100, stats.DistinctBytes, stats.MaxCodeLen)
	return nil
}

func handleDecompress(input, output string) error {
	reporter := progress.NewReporter(os.Stdout, "decompressing "+input, 0)
	opts := options.Options{Logger: reporter.LogFunc(), Progress: reporter.ProgressFunc()}

	result, err := pipeline.DecompressPath(input, output, opts)
	if err != nil {
		return describeError(err)
	}

	if result.ShortDecode {
		fmt.Printf("Decompressed %d bytes (short: the stream ended before the declared size).\n", result.BytesWritten)
	} else {
		fmt.Printf("Decompressed %d bytes.\n", result.BytesWritten)
	}
	return nil
}

// describeError adds the semantic error Kind to the message the user
// sees, matching the reference's getErrorMessage table.
func describeError(err error) error {
	return fmt.Errorf("%s: %w", herrors.KindOf(err), err)
}
