package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"reel/internal/media/remap"
	"reel/internal/quality"
	"reel/internal/services"
	"reel/internal/session"
)

var commandContext = exec.CommandContext

// Request describes one transcode.
type Request struct {
	Input   string
	Format  quality.Format
	Quality quality.Spec
	// Plan, when set, remaps the audio channels through a filter graph.
	Plan *remap.Plan
	// OutputName overrides the input-derived output stem.
	OutputName string
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

// CLI wraps the ffmpeg command-line transcoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// OutputPath computes where the transcode writes inside outputDir.
func OutputPath(req Request, outputDir string) string {
	stem := strings.TrimSpace(req.OutputName)
	if stem == "" {
		base := filepath.Base(req.Input)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if stem == "" {
		stem = "output"
	}
	return filepath.Join(outputDir, stem+req.Format.Extension)
}

// BuildArgs renders the full transcode argument vector. Pure: the codec
// table, rate control, and filter-graph layering are testable without
// spawning anything.
func BuildArgs(req Request, outputPath string) []string {
	args := []string{"-y", "-hide_banner", "-i", req.Input}

	if req.Plan != nil {
		args = append(args, "-filter_complex", req.Plan.FilterGraph)
		if !req.Format.AudioOnly {
			args = append(args, "-map", "0:v:0?")
		}
		args = append(args, "-map", req.Plan.OutputLabel)
	} else if req.Format.AudioOnly {
		args = append(args, "-vn")
	}

	if !req.Format.AudioOnly {
		args = append(args, "-c:v", req.Format.VideoCodec)
		if req.Quality.CRF > 0 {
			args = append(args, "-crf", strconv.Itoa(req.Quality.CRF))
		}
		if req.Quality.Preset != "" {
			args = append(args, "-preset", req.Quality.Preset)
		}
	}
	args = append(args, "-c:a", req.Format.AudioCodec)
	args = append(args, req.Format.ExtraArgs...)
	args = append(args, outputPath)
	return args
}

// Transcode runs ffmpeg for req, writing into the session's scratch
// directory, and returns the output path. The spawned process is attached
// to the session so cancellation lands on it.
func (c *CLI) Transcode(ctx context.Context, sess *session.Session, req Request) (string, error) {
	if strings.TrimSpace(req.Input) == "" {
		return "", services.Wrap(services.ErrValidation, "ffmpeg", "transcode", "empty input path", nil)
	}

	outputPath := OutputPath(req, sess.TempDir)
	args := BuildArgs(req, outputPath)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", services.Wrap(services.ErrProcessSpawnFailure, "ffmpeg", "transcode",
			fmt.Sprintf("launch %s", c.binary), err)
	}
	sess.Attach(cmd.Process)

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", classifyExit(stderr.String(), err)
		}
		return "", services.Wrap(services.ErrProcessAbnormalExit, "ffmpeg", "transcode", "", err)
	}
	return outputPath, nil
}

// failureCategories map stderr fragments to the transcode failure labels
// surfaced in diagnostics, first match wins.
var failureCategories = []struct {
	fragment string
	label    string
}{
	{"error initializing complex filter", "filter graph rejected"},
	{"invalid channel layout", "filter graph rejected"},
	{"matches no streams", "filter graph rejected"},
	{"unknown encoder", "unsupported codec"},
	{"encoder not found", "unsupported codec"},
	{"no such file or directory", "input not found"},
	{"permission denied", "permission denied"},
}

func classifyExit(stderr string, err error) error {
	lowered := strings.ToLower(stderr)
	label := "transcode failed"
	for _, category := range failureCategories {
		if strings.Contains(lowered, category.fragment) {
			label = category.label
			break
		}
	}
	return services.Wrap(services.ErrProcessAbnormalExit, "ffmpeg", "transcode",
		fmt.Sprintf("%s: %s", label, diagnosticTail(stderr)), err)
}

func diagnosticTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
