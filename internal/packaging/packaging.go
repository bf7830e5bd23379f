package packaging

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"reel/internal/logging"
	"reel/internal/platform"
	"reel/internal/services"
)

// Mode selects the response shape for a produced file set.
type Mode string

const (
	// SingleStream sends one file as a raw binary body.
	SingleStream Mode = "single-stream"
	// Archive sends the ordered file set as one zip stream.
	Archive Mode = "archive"
)

// Decision pairs a response mode with the ordered files it covers.
type Decision struct {
	Mode  Mode
	Files []string
}

// Decide picks the response shape for the produced files. Archive only
// applies when the originating platform allows multi-file results and
// more than one file was produced; everything else streams the first
// file. Ordering puts video files before all others, lexical within each
// group.
func Decide(files []string, allowsMultiFile bool) (Decision, error) {
	if len(files) == 0 {
		return Decision{}, services.Wrap(services.ErrNoOutputProduced, "packaging", "decide",
			"no files to package", nil)
	}
	ordered := Order(files)
	if allowsMultiFile && len(ordered) > 1 {
		return Decision{Mode: Archive, Files: ordered}, nil
	}
	return Decision{Mode: SingleStream, Files: ordered[:1]}, nil
}

// Order sorts video files before all others, lexical tie-break by base
// name within each group. The input slice is not modified.
func Order(files []string) []string {
	ordered := append([]string(nil), files...)
	sort.SliceStable(ordered, func(i, j int) bool {
		iVideo := platform.IsVideoFile(ordered[i])
		jVideo := platform.IsVideoFile(ordered[j])
		if iVideo != jVideo {
			return iVideo
		}
		return filepath.Base(ordered[i]) < filepath.Base(ordered[j])
	})
	return ordered
}

// Packager streams packaging decisions over HTTP and guarantees cleanup
// on every exit path.
type Packager struct {
	logger *slog.Logger
}

// New builds a Packager.
func New(logger *slog.Logger) *Packager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Packager{logger: logger.With(logging.String(logging.FieldComponent, "packaging"))}
}

// Serve writes the decision to the client and invokes cleanup exactly
// once when the stream ends, fails, or the client disconnects. Errors
// after the first body byte can only be logged: the status line is gone.
func (p *Packager) Serve(w http.ResponseWriter, r *http.Request, decision Decision, downloadName string, cleanup func()) error {
	defer cleanup()
	switch decision.Mode {
	case Archive:
		return p.serveArchive(w, r, decision.Files, downloadName)
	default:
		return p.serveSingle(w, decision.Files[0], downloadName)
	}
}

func (p *Packager) serveSingle(w http.ResponseWriter, path, downloadName string) error {
	file, err := os.Open(path)
	if err != nil {
		http.Error(w, "output file unavailable", http.StatusInternalServerError)
		return services.Wrap(services.ErrNoOutputProduced, "packaging", "stream",
			fmt.Sprintf("open %s", path), err)
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		http.Error(w, "output file unavailable", http.StatusInternalServerError)
		return services.Wrap(services.ErrNoOutputProduced, "packaging", "stream",
			fmt.Sprintf("stat %s", path), err)
	}

	name := strings.TrimSpace(downloadName)
	if name == "" {
		name = filepath.Base(path)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if _, err := io.Copy(w, file); err != nil {
		// Headers are sent; the client likely disconnected mid-body.
		p.logger.Warn("single-file stream aborted",
			logging.String("file", filepath.Base(path)),
			logging.Error(err))
	}
	return nil
}

func (p *Packager) serveArchive(w http.ResponseWriter, r *http.Request, files []string, downloadName string) error {
	name := strings.TrimSpace(downloadName)
	if name == "" {
		name = "download"
	}
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".zip"
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	archive := zip.NewWriter(w)
	for _, path := range files {
		select {
		case <-r.Context().Done():
			// Client gone; abandon compression, cleanup still runs.
			_ = archive.Close()
			p.logger.Warn("archive stream aborted by client")
			return nil
		default:
		}
		if err := p.addArchiveEntry(archive, path); err != nil {
			_ = archive.Close()
			p.logger.Warn("archive stream failed",
				logging.String("file", filepath.Base(path)),
				logging.Error(err))
			return services.Wrap(services.ErrArchiveFailure, "packaging", "archive",
				fmt.Sprintf("compress %s", filepath.Base(path)), err)
		}
	}
	if err := archive.Close(); err != nil {
		return services.Wrap(services.ErrArchiveFailure, "packaging", "archive",
			"finalize archive", err)
	}
	return nil
}

func (p *Packager) addArchiveEntry(archive *zip.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate
	entry, err := archive.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, file)
	return err
}
