package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/badu/pullpart"
)

func runDump(_ *cobra.Command, _ []string) error {
	in := io.Reader(os.Stdin)
	if fileFlag != "" {
		f, err := os.Open(fileFlag)
		if err != nil {
			return fmt.Errorf("open %s: %w", fileFlag, err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	log := newLogger(verboseFlag)
	dec, err := pullpart.ForMultipartBoundary(boundaryFlag)
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	defer dec.Close()

	buf := make([]byte, chunkFlag)
	fieldCount := 0
	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			if err := dec.Add(buf[:n]); err != nil {
				return fmt.Errorf("add chunk: %w", err)
			}
			if err := drainEvents(dec, log, &fieldCount); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read body: %w", readErr)
		}
	}

	fmt.Printf("fields: %d\n", fieldCount)
	return nil
}

func drainEvents(dec *pullpart.Decoder, log interface{ Infof(string, ...any) }, fieldCount *int) error {
	for {
		ev, err := dec.Next()
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if ev == pullpart.EventNone {
			return nil
		}

		switch ev {
		case pullpart.BeginField:
			*fieldCount++
			fmt.Println("BEGIN_FIELD")
			log.Infof("BEGIN_FIELD #%d", *fieldCount)
		case pullpart.Header:
			name, _ := dec.HeaderName()
			value, _ := dec.HeaderValue()
			fmt.Printf("HEADER %s: %s\n", name, value)
			log.Infof("HEADER %s=%q", name, value)
		case pullpart.HeadersComplete:
			fmt.Println("HEADERS_COMPLETE")
			log.Infof("HEADERS_COMPLETE")
		case pullpart.Content:
			content, _ := dec.DecodedContent()
			fmt.Printf("CONTENT %d bytes\n", len(content))
			log.Infof("CONTENT %d bytes", len(content))
		case pullpart.FieldComplete:
			fmt.Println("FIELD_COMPLETE")
			log.Infof("FIELD_COMPLETE")
		}
	}
}
