package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dinein/internal/domain/service"
	"dinein/internal/infra/qrcode"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// Supported subcommands:
// - generate: Render printable PNG codes for table identifiers
// - decode:   Print the table identifier a scanned payload names

func main() {
	generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	decodeCmd := flag.NewFlagSet("decode", flag.ExitOnError)

	generateTables := generateCmd.String("tables", "", "Comma-separated table identifiers (e.g. T1,T2,T3)")
	generateOutput := generateCmd.String("output", "./qr", "Output directory for PNG files")
	generateBaseURL := generateCmd.String("base-url", "http://localhost:3000", "Base URL the codes link to")
	generateSize := generateCmd.Int("size", 256, "Image size in pixels")
	generateLevel := generateCmd.String("level", "M", "Error correction level (L, M, Q, H)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		_ = generateCmd.Parse(os.Args[2:])
		qr := qrcode.NewQRCodeService(*generateSize, *generateLevel, *generateBaseURL)
		err = generate(qr, splitTables(*generateTables), *generateOutput, os.Stdout)
	case "decode":
		_ = decodeCmd.Parse(os.Args[2:])
		err = decode(qrcode.NewQRCodeService(0, "", ""), decodeCmd.Args(), os.Stdout)
	case "help", "-h", "--help":
		printUsage()
	default:
		err = errors.Errorf("unknown subcommand: %s", os.Args[1])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func splitTables(raw string) []string {
	var tables []string
	for _, table := range strings.Split(raw, ",") {
		if table = strings.TrimSpace(table); table != "" {
			tables = append(tables, table)
		}
	}

	return tables
}

// generate writes <output>/<table>.png for every table.
func generate(qr service.QRCodeService, tables []string, output string, out io.Writer) error {
	if len(tables) == 0 {
		return errors.New("no tables given, use -tables T1,T2")
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	summary := tablewriter.NewWriter(out)
	summary.Header("Table", "Link", "File")

	for _, table := range tables {
		png, err := qr.GenerateTableQR(table)
		if err != nil {
			return errors.Wrapf(err, "table %s", table)
		}

		path := filepath.Join(output, table+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		if err := summary.Append([]string{table, qr.TableURL(table), path}); err != nil {
			return errors.WithStack(err)
		}
	}

	return errors.WithStack(summary.Render())
}

// decode prints one identifier per payload and fails on the first bad one.
func decode(qr service.QRCodeService, payloads []string, out io.Writer) error {
	if len(payloads) == 0 {
		return errors.New("no payloads given")
	}

	for _, payload := range payloads {
		table, err := qr.ParseTablePayload(payload)
		if err != nil {
			return errors.Wrapf(err, "payload %q", payload)
		}
		fmt.Fprintln(out, table)
	}

	return nil
}

func printUsage() {
	fmt.Println("Usage: tableqr <subcommand> [options]")
	fmt.Println()
	fmt.Println("Subcommands:")
	fmt.Println("  generate  Render printable PNG codes for table identifiers")
	fmt.Println("  decode    Print the table identifier a scanned payload names")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tableqr generate -tables T1,T2 -output ./qr -base-url https://dine.example.com")
	fmt.Println("  tableqr decode https://dine.example.com/table/T1 '{\"table_id\":\"T2\",\"type\":\"table\"}'")
}
