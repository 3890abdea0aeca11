//go:build ignore

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jtollefsen/emberon/pkg/brasa"
)

// Statistics tracks decoding results
type Statistics struct {
	Lines        int
	Frames       int
	DecodeErrors int
	TagCounts    map[brasa.Tag]int
}

func main() {
	var input io.Reader = os.Stdin
	source := "stdin"

	if len(os.Args) >= 2 {
		if os.Args[1] == "-h" || os.Args[1] == "--help" {
			fmt.Println("Usage: decode-frames [hex-dump-file]")
			fmt.Println("Example: decode-frames captures/overview-ef36.hex")
			fmt.Println("         emberon-ctl status --fire EF36-0042 | decode-frames")
			fmt.Println()
			fmt.Println("Each input line is one hex dump: a single frame or several frames")
			fmt.Println("concatenated. Spaces, 0x prefixes and '#' comments are ignored.")
			os.Exit(0)
		}

		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Printf("Error opening file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		input = f
		source = os.Args[1]
	}

	fmt.Printf("=== Brasa Frame Decoder ===\n")
	fmt.Printf("Input: %s\n\n", source)

	stats := Statistics{TagCounts: make(map[brasa.Tag]int)}

	scanner := bufio.NewScanner(input)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Strip comments and whitespace
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		cleaned := strings.NewReplacer(" ", "", "\t", "", "0x", "", "0X", "").Replace(line)
		if cleaned == "" {
			continue
		}

		data, err := hex.DecodeString(cleaned)
		if err != nil {
			fmt.Printf("line %d: not valid hex: %v\n\n", lineNum, err)
			stats.DecodeErrors++
			continue
		}

		stats.Lines++
		decodeLine(lineNum, data, &stats)
	}

	if err := scanner.Err(); err != nil {
		fmt.Printf("Error reading input: %v\n", err)
		os.Exit(1)
	}

	printSummary(&stats)

	if stats.DecodeErrors > 0 {
		os.Exit(1)
	}
}

// decodeLine splits one dump into frames and prints each decoded parameter
func decodeLine(lineNum int, data []byte, stats *Statistics) {
	fmt.Printf("line %d: %d bytes\n", lineNum, len(data))

	for offset := 0; offset < len(data); {
		tag, payloadLen, err := brasa.ParseHeader(data[offset:])
		if err != nil {
			fmt.Printf("  [%02d] bad frame: %v\n", offset, err)
			fmt.Printf("       remaining bytes: %x\n", data[offset:])
			stats.DecodeErrors++
			break
		}

		frameEnd := offset + brasa.HeaderSize + payloadLen
		param, err := brasa.DecodeParameter(data[offset:frameEnd])
		if err != nil {
			fmt.Printf("  [%02d] bad frame: %v\n", offset, err)
			fmt.Printf("       frame bytes: %x\n", data[offset:frameEnd])
			stats.DecodeErrors++
			break
		}

		fmt.Printf("  [%02d] tag 0x%02x %-10s %s\n", offset, uint8(tag), tagName(tag), param)
		stats.Frames++
		stats.TagCounts[tag]++
		offset = frameEnd
	}

	fmt.Println()
}

// tagName returns a short lowercase name for known tags
func tagName(tag brasa.Tag) string {
	switch tag {
	case brasa.TagMode:
		return "mode"
	case brasa.TagFlameEffect:
		return "flame"
	case brasa.TagSetpoint:
		return "setpoint"
	case brasa.TagTimer:
		return "timer"
	case brasa.TagColor:
		return "color"
	case brasa.TagFirmware:
		return "firmware"
	case brasa.TagFault:
		return "fault"
	case brasa.TagLight:
		return "light"
	default:
		return "unknown"
	}
}

func printSummary(stats *Statistics) {
	fmt.Printf("=== Summary ===\n")
	fmt.Printf("Lines decoded:  %d\n", stats.Lines)
	fmt.Printf("Frames decoded: %d\n", stats.Frames)
	fmt.Printf("Errors:         %d\n", stats.DecodeErrors)

	if len(stats.TagCounts) > 0 {
		fmt.Printf("Frames by tag:\n")
		for t := 0; t < 256; t++ {
			tag := brasa.Tag(t)
			if count, ok := stats.TagCounts[tag]; ok {
				fmt.Printf("  0x%02x %-10s %d\n", uint8(tag), tagName(tag), count)
			}
		}
	}
}
