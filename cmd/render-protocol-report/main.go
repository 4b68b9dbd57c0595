package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joelkehle/protocol-check/internal/protocheck"
	"github.com/joelkehle/protocol-check/internal/render"
)

func main() {
	inputPath := flag.String("input", "", "Path to saved validation response envelope JSON")
	format := flag.String("format", "markdown", "Output format: markdown or html")
	outputPath := flag.String("output", "", "Path to write the rendered report (defaults to stdout)")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	var env protocheck.ResponseEnvelope
	if err := json.Unmarshal(in, &env); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}

	// Saved envelopes may predate markdown changes; rebuild from the report
	// so rendering always reflects the current format.
	env.ReportMarkdown = protocheck.BuildMarkdown(env.Report)

	var out string
	switch *format {
	case "markdown":
		out = env.ReportMarkdown
	case "html":
		out, err = render.HTML(env)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
	default:
		log.Fatalf("unknown format %q (want markdown or html)", *format)
	}

	if *outputPath == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(*outputPath, []byte(out), 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
}
