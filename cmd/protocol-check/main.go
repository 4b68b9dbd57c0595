package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joelkehle/protocol-check/internal/protocheck"
	"github.com/joelkehle/protocol-check/internal/render"
	"github.com/joelkehle/protocol-check/internal/rulecfg"
)

func main() {
	inputPath := flag.String("input", "", "Path to protocol JSON ({\"study_type\": ..., \"sections\": {...}})")
	studyType := flag.String("study-type", "", "Study type override (e.g. phase2, slr)")
	rulesPath := flag.String("rules", "", "Optional YAML rules file (defaults to the built-in table)")
	format := flag.String("format", "markdown", "Output format: markdown, json, or html")
	outputPath := flag.String("output", "", "Path to write the report (defaults to stdout)")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	var doc struct {
		StudyType string            `json:"study_type"`
		Sections  map[string]string `json:"sections"`
	}
	if err := json.Unmarshal(in, &doc); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}
	if *studyType != "" {
		doc.StudyType = *studyType
	}

	reg, err := rulecfg.Load(*rulesPath)
	if err != nil {
		log.Fatal(err)
	}

	startedAt := time.Now().UTC()
	report, err := protocheck.ValidateProtocol(context.Background(), reg, doc.Sections, doc.StudyType)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}
	env := protocheck.BuildResponse(report, startedAt)

	out, err := formatResponse(env, *format)
	if err != nil {
		log.Fatal(err)
	}
	if err := writeOutput(*outputPath, out); err != nil {
		log.Fatalf("write output: %v", err)
	}

	if report.HasCritical() {
		os.Exit(1)
	}
}

func formatResponse(env protocheck.ResponseEnvelope, format string) (string, error) {
	switch format {
	case "markdown":
		return env.ReportMarkdown, nil
	case "json":
		b, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "html":
		return render.HTML(env)
	default:
		return "", fmt.Errorf("unknown format %q (want markdown, json, or html)", format)
	}
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := fmt.Print(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
