// ocrlayout is a command-line tool that turns OCR output into plain text that
// keeps the visual layout of the page.
//
// Words are placed on their lines, horizontal gaps become runs of non-breaking
// spaces proportional to the gap width and large vertical gaps become blank
// lines, so tables, forms and indented blocks stay readable.
//
// Input is either page images recognized with Tesseract or Google Document AI,
// or an existing hOCR file.
//
// Configuration:
//
// An optional YAML configuration file selects the engine and tunes the layout:
//
//	engine: docai
//	language: eng
//	workers: 4
//	docai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//
// Settings can also come from the environment (OCRLAYOUT_ENGINE, OCRLAYOUT_LANG,
// OCRLAYOUT_RTL, OCRLAYOUT_WORKERS, DOCAI_PROJECT_ID, ...) or a .env file.
//
// Usage:
//
//	ocrlayout -image scan.png [options]
//
// Input flags (exactly one required):
//
//	-image string    Path to a page image
//	-images string   Comma separated list of page images, processed as one document
//	-hocr-in string  Path to an hOCR file
//
// Output options (extracted.txt is written when none is given):
//
//	-text string  Path to save the reconstructed text
//	-hocr string  Path to save hOCR built from the reconstructed lines
//	-pdf string   Path to save the reconstructed text as PDF
//
// Debug options:
//
//	-debug-api string  Path to save the raw Document AI response as JSON
//
// Example:
//
//	ocrlayout -image invoice.png -lang eng -text invoice.txt
//	ocrlayout -images p1.png,p2.png -engine docai -config config.yml -pdf out.pdf
//	ocrlayout -hocr-in page.hocr -rtl -text page.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrlayout/internal/config"
)

// defaultTextPath is used when no output flag is given.
const defaultTextPath = "extracted.txt"

func main() {
	// Input flags.
	configPath := flag.String("config", "", "Path to the config YAML file")
	envPath := flag.String("env", ".env", "Path to an optional .env file")
	imagePath := flag.String("image", "", "Path to the input image (required if -images and -hocr-in are not specified)")
	imagePaths := flag.String("images", "", "Comma-separated list of images to process as consecutive pages")
	hocrInPath := flag.String("hocr-in", "", "Path to an hOCR file to reconstruct instead of running OCR")

	// Engine flags, overriding the configuration when given.
	engineName := flag.String("engine", "", "OCR engine: tesseract or docai")
	lang := flag.String("lang", "", "Recognition language, e.g. eng or ara+eng")
	rtl := flag.Bool("rtl", false, "Force right-to-left word ordering")
	workers := flag.Int("workers", 0, "Number of images recognized in parallel")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error")

	// Output flags.
	textPath := flag.String("text", "", "Path to save the reconstructed text")
	hocrPath := flag.String("hocr", "", "Path to save hOCR output")
	pdfPath := flag.String("pdf", "", "Path to save the reconstructed text as PDF")
	debugAPIPath := flag.String("debug-api", "", "Path to save the Document AI response as JSON for debugging purposes")

	flag.Parse()

	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	// Validate that exactly one input is provided
	inputs := 0
	for _, v := range []string{*imagePath, *imagePaths, *hocrInPath} {
		if v != "" {
			inputs++
		}
	}
	if inputs != 1 {
		usage("Exactly one of -image, -images or -hocr-in must be provided")
	}

	// Validate that provided output flags have values
	for name, value := range map[string]string{
		"text": *textPath, "hocr": *hocrPath, "pdf": *pdfPath, "debug-api": *debugAPIPath,
	} {
		if providedFlags[name] && value == "" {
			usage(fmt.Sprintf("-%s flag requires a value", name))
		}
	}
	if *textPath == "" && *hocrPath == "" && *pdfPath == "" {
		*textPath = defaultTextPath
	}

	if err := config.LoadEnvFile(*envPath); err != nil {
		logrus.Fatalf("Failed to load environment file: %v", err)
	}

	// Command line flags win over the file and the environment.
	if providedFlags["engine"] {
		os.Setenv("OCRLAYOUT_ENGINE", *engineName)
	}
	if providedFlags["lang"] {
		os.Setenv("OCRLAYOUT_LANG", *lang)
	}
	if providedFlags["rtl"] {
		os.Setenv("OCRLAYOUT_RTL", fmt.Sprint(*rtl))
	}
	if providedFlags["workers"] {
		os.Setenv("OCRLAYOUT_WORKERS", fmt.Sprint(*workers))
	}
	if providedFlags["log-level"] {
		os.Setenv("OCRLAYOUT_LOG_LEVEL", *logLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{cfg: cfg, log: log, langProvided: providedFlags["lang"]}

	var doc *document
	switch {
	case *hocrInPath != "":
		doc, err = a.reconstructHOCR(*hocrInPath)
	case *imagePath != "":
		doc, err = a.recognizeImages(ctx, []string{*imagePath}, *debugAPIPath != "")
	default:
		doc, err = a.recognizeImages(ctx, splitPaths(*imagePaths), *debugAPIPath != "")
	}
	if err != nil {
		log.Fatalf("Error processing input: %v", err)
	}

	log.WithFields(logrus.Fields{
		"pages":     len(doc.pages),
		"direction": doc.direction,
	}).Info("Reconstructed layout")
	fmt.Println("Direction:", doc.direction)

	outputs := []struct {
		path  string
		what  string
		write func(string) error
	}{
		{*textPath, "Reconstructed text", doc.writeText},
		{*hocrPath, "hOCR output", doc.writeHOCR},
		{*pdfPath, "PDF output", func(p string) error { return doc.writePDF(p, cfg.PDFOptions()) }},
		{*debugAPIPath, "API response JSON", doc.writeAPIResponses},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := out.write(out.path); err != nil {
			log.Fatalf("Failed to write %s: %v", out.what, err)
		}
		log.WithField("path", out.path).Infof("%s saved", out.what)
	}
}

func usage(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	fmt.Fprintln(os.Stderr, "Usage:")
	flag.PrintDefaults()
	os.Exit(1)
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
