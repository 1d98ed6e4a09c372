package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "pullpart-dump",
	Short: "Streams a multipart/form-data body through pullpart and prints its events",
	RunE:  runDump,
}

var (
	boundaryFlag string
	fileFlag     string
	chunkFlag    int
	verboseFlag  bool
)

func init() {
	rootCmd.Flags().StringVar(&boundaryFlag, "boundary", "", "boundary token, without the leading --  (required)")
	rootCmd.Flags().StringVar(&fileFlag, "file", "", "path to read the body from (default: stdin)")
	rootCmd.Flags().IntVar(&chunkFlag, "chunk-size", 4096, "bytes per Add() call while feeding the decoder")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "log every event via zap as it is decoded")
	_ = rootCmd.MarkFlagRequired("boundary")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
