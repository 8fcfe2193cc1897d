// Command segment splits a diagnosis report into categorized sections
// without calling a model. It reads a .txt, .md, .html, .pdf or .docx file,
// or plain text from stdin.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agriguard/agriguard/internal/export"
	"github.com/agriguard/agriguard/internal/locale"
	"github.com/agriguard/agriguard/internal/parser"
	"github.com/agriguard/agriguard/internal/report"
)

type options struct {
	lang      string
	format    string
	rulesFile string
	pdftotext bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "segment [file]",
		Short:        "Split a crop diagnosis report into categorized sections",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", string(locale.Default), "display language for generated labels")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format: json, markdown or html")
	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "YAML file with extra classifier keywords")
	cmd.Flags().BoolVar(&opts.pdftotext, "pdftotext", true, "fall back to pdftotext for unreadable PDFs")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts options) error {
	lang, err := locale.Parse(opts.lang)
	if err != nil {
		return err
	}
	classifier, err := report.ClassifierFromFile(opts.rulesFile)
	if err != nil {
		return err
	}

	text, err := readInput(cmd.InOrStdin(), args, opts)
	if err != nil {
		return err
	}
	view := report.NewSegmenter(classifier).BuildView(text, lang)

	out := cmd.OutOrStdout()
	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format == export.FormatHTML {
		html, err := export.HTML(view)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, html)
		return err
	}
	_, err = io.WriteString(out, export.Markdown(view))
	return err
}

func readInput(stdin io.Reader, args []string, opts options) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	path := args[0]
	extractor, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: opts.pdftotext})
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	text, err := extractor.Extract(f)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return text, nil
}
