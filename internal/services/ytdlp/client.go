package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"reel/internal/platform"
	"reel/internal/quality"
	"reel/internal/services"
	"reel/internal/session"
)

var commandContext = exec.CommandContext

// sidecarExtensions are auxiliary files the extraction tool writes next to
// the media: info dumps, descriptions, thumbnails, partials.
var sidecarExtensions = map[string]struct{}{
	".json":        {},
	".description": {},
	".jpg":         {},
	".jpeg":        {},
	".png":         {},
	".webp":        {},
	".part":        {},
	".ytdl":        {},
	".temp":        {},
}

// Request describes one extraction.
type Request struct {
	URL      string
	Quality  quality.Spec
	Strategy platform.Strategy
	// Filename, when set, overrides the title-derived output name.
	Filename string
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the yt-dlp command-line extractor.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "yt-dlp"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// BuildArgs renders the full extraction argument vector. Pure: callers can
// unit test platform and quality layering without spawning anything.
func BuildArgs(req Request, outputDir string) []string {
	template := filepath.Join(outputDir, "%(title)s.%(ext)s")
	if name := SafeFilename(req.Filename); name != "" {
		template = filepath.Join(outputDir, name+".%(ext)s")
	}
	args := []string{
		"-f", req.Quality.FormatSelector,
		"-o", template,
		"--restrict-filenames",
		"--embed-metadata",
		"--no-warnings",
		"--no-progress",
	}
	args = append(args, req.Strategy.ExtraArgs...)
	args = append(args, "--", req.URL)
	return args
}

// SafeFilename normalizes a requested output name: Unicode NFC, path
// separators and template metacharacters stripped, extension dropped.
// Empty input stays empty so the title template applies.
func SafeFilename(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	replacer := strings.NewReplacer("%", "", "/", "", "\\", "", "\x00", "")
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// Fetch runs the extraction for req inside the session's scratch
// directory and returns the produced media files, sidecars excluded.
// The spawned process is attached to the session so cancellation lands
// on it.
func (c *CLI) Fetch(ctx context.Context, sess *session.Session, req Request) ([]string, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, services.Wrap(services.ErrValidation, "ytdlp", "fetch", "empty url", nil)
	}

	args := BuildArgs(req, sess.TempDir)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrProcessSpawnFailure, "ytdlp", "fetch",
			fmt.Sprintf("launch %s", c.binary), err)
	}
	sess.Attach(cmd.Process)

	if err := cmd.Wait(); err != nil {
		return nil, classifyExit(req.Strategy, stderr.String(), err)
	}

	files, err := enumerateOutputs(sess.TempDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, services.Wrap(services.ErrNoOutputProduced, "ytdlp", "fetch",
			fmt.Sprintf("extraction of %s finished without media files", req.URL), nil)
	}
	return files, nil
}

// classifyExit translates a nonzero extraction exit into the failure
// taxonomy, preferring the platform's auth patterns over the generic
// abnormal-exit bucket.
func classifyExit(strat platform.Strategy, stderr string, err error) error {
	lowered := strings.ToLower(stderr)
	for _, pattern := range strat.AuthFailurePatterns {
		if strings.Contains(lowered, strings.ToLower(pattern)) {
			return &services.AuthRequiredError{
				Platform: string(strat.Tag),
				Guidance: strat.AuthGuidance,
				Detail:   diagnosticTail(stderr),
			}
		}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return services.Wrap(services.ErrProcessAbnormalExit, "ytdlp", "fetch",
			diagnosticTail(stderr), err)
	}
	return services.Wrap(services.ErrProcessAbnormalExit, "ytdlp", "fetch", "", err)
}

// diagnosticTail keeps the last few stderr lines, which is where the
// extraction tool prints its actual error.
func diagnosticTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func enumerateOutputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNoOutputProduced, "ytdlp", "enumerate",
			fmt.Sprintf("read %s", dir), err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, sidecar := sidecarExtensions[ext]; sidecar {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
