package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/tsawler/deckgen"
	"github.com/tsawler/deckgen/render"
	"github.com/tsawler/deckgen/server"
)

func main() {
	listen := flag.String("listen", ":8080", "Address to serve HTTP on")
	template := flag.String("template", "template.pptx", "Path to the PPTX template")
	origins := flag.String("origins", "", "Comma-separated CORS origins (\"*\" allows any)")
	soffice := flag.String("soffice", "", "Path to a soffice binary for PDF output (empty disables PDF)")
	timeout := flag.Duration("timeout", render.DefaultTimeout, "PDF conversion timeout")
	requestFile := flag.String("request", "", "Render a single request from a JSON file and exit")
	out := flag.String("out", "", "Output path for -request mode")
	debug := flag.Bool("d", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	tpl, err := os.ReadFile(*template)
	if err != nil {
		log.Error("reading template", "path", *template, "error", err)
		os.Exit(1)
	}

	if *requestFile != "" {
		if err := renderOnce(tpl, *requestFile, *out); err != nil {
			log.Error("render failed", "error", err)
			os.Exit(1)
		}
		return
	}

	var renderer render.Renderer
	if *soffice != "" {
		renderer = render.NewLibreOffice(*soffice, *timeout)
	}

	srv := server.New(server.Config{
		Template:       tpl,
		Renderer:       renderer,
		AllowedOrigins: splitOrigins(*origins),
		Logger:         log,
	})

	log.Info("listening", "addr", *listen, "pdf_enabled", renderer != nil)
	if err := http.ListenAndServe(*listen, srv.Handler()); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// renderOnce generates a single proposal from a request JSON file, for
// local use without the HTTP layer.
func renderOnce(tpl []byte, requestFile, outPath string) error {
	data, err := os.ReadFile(requestFile)
	if err != nil {
		return err
	}

	var req server.RenderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parsing %s: %w", requestFile, err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	result, err := deckgen.Generate(tpl, req.Replacements(), req.SlideToggles)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = req.Filename(server.FormatPPTX)
	}
	if err := os.WriteFile(outPath, result, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d bytes)\n", outPath, len(result))
	return nil
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
