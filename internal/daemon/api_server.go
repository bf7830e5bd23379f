package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reel/internal/api"
	"reel/internal/config"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/media/ffprobe"
	"reel/internal/media/remap"
	"reel/internal/packaging"
	"reel/internal/platform"
	"reel/internal/quality"
	"reel/internal/services"
	"reel/internal/services/ffmpeg"
	"reel/internal/services/ytdlp"
	"reel/internal/session"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/download", srv.handleDownload)
	mux.HandleFunc("/api/convert", srv.handleConvert)
	mux.HandleFunc("/api/cancel", srv.handleCancel)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/history", srv.handleHistory)
	mux.HandleFunc("/api/probe", srv.handleProbe)

	// No write timeout: download responses stream for as long as the
	// media takes to transfer.
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// toolContext derives the context external tool invocations run under.
// A zero configured timeout disables the deadline.
func (s *apiServer) toolContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := s.daemon.cfg.ToolTimeout()
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func (s *apiServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "ValidationError", "method not allowed", "")
		return
	}
	var req api.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "malformed request body", "")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "url is required", "")
		return
	}
	spec, err := quality.Lookup(req.Quality)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	tag := platform.Detect(req.URL)
	strat := platform.StrategyFor(tag)

	sess, err := s.daemon.registry.Register(req.URL, "download")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.watch(r, sess)

	toolCtx, cancelTool := s.toolContext(context.Background())
	defer cancelTool()
	toolCtx = services.WithSessionKey(services.WithRequestID(toolCtx, sess.ID), sess.Key)

	s.log().InfoContext(toolCtx, "download started",
		logging.String(logging.FieldPlatform, string(tag)),
		logging.String("quality", string(spec.Tier)))
	files, err := s.daemon.ytdlp.Fetch(toolCtx, sess, ytdlp.Request{
		URL:      req.URL,
		Quality:  spec,
		Strategy: strat,
		Filename: req.Filename,
	})
	sess.Finish(err)
	s.record(sess, string(tag), string(spec.Tier), "", err)
	if err != nil {
		sess.Cleanup()
		s.writeServiceError(w, err)
		return
	}

	decision, err := packaging.Decide(files, strat.AllowsMultiFile)
	if err != nil {
		sess.Cleanup()
		s.writeServiceError(w, err)
		return
	}

	name := ytdlp.SafeFilename(req.Filename)
	if name == "" {
		name = filepath.Base(decision.Files[0])
	}
	if serveErr := s.daemon.packager.Serve(w, r, decision, name, sess.Cleanup); serveErr != nil {
		s.log().Warn("download response failed",
			logging.String(logging.FieldSessionKey, sess.Key),
			logging.Error(serveErr))
	}
}

func (s *apiServer) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "ValidationError", "method not allowed", "")
		return
	}
	var req api.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "malformed request body", "")
		return
	}
	req.Input = strings.TrimSpace(req.Input)
	if req.Input == "" {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "input is required", "")
		return
	}
	format, err := quality.LookupFormat(req.Format)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	spec, err := quality.Lookup(req.Quality)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if (req.LeftChannel == nil) != (req.RightChannel == nil) {
		s.writeError(w, http.StatusBadRequest, "ValidationError",
			"leftChannel and rightChannel must be set together", "")
		return
	}

	sess, err := s.daemon.registry.Register(req.Input, "convert")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.watch(r, sess)

	toolCtx, cancelTool := s.toolContext(context.Background())
	defer cancelTool()
	toolCtx = services.WithSessionKey(services.WithRequestID(toolCtx, sess.ID), sess.Key)

	tag := platform.Detect(req.Input)
	s.log().InfoContext(toolCtx, "convert started",
		logging.String("format", format.Name),
		logging.String("quality", string(spec.Tier)))
	output, err := s.convert(toolCtx, sess, req, format, spec)
	sess.Finish(err)
	s.record(sess, string(tag), string(spec.Tier), format.Name, err)
	if err != nil {
		sess.Cleanup()
		s.writeServiceError(w, err)
		return
	}

	decision := packaging.Decision{Mode: packaging.SingleStream, Files: []string{output}}
	if serveErr := s.daemon.packager.Serve(w, r, decision, filepath.Base(output), sess.Cleanup); serveErr != nil {
		s.log().Warn("convert response failed",
			logging.String(logging.FieldSessionKey, sess.Key),
			logging.Error(serveErr))
	}
}

// convert resolves the input to a local file, plans the optional channel
// remap, and runs the transcode. All inside the session's scratch dir.
func (s *apiServer) convert(ctx context.Context, sess *session.Session, req api.ConvertRequest, format quality.Format, spec quality.Spec) (string, error) {
	input := req.Input
	if isRemoteInput(input) {
		tag := platform.Detect(input)
		files, err := s.daemon.ytdlp.Fetch(ctx, sess, ytdlp.Request{
			URL:      input,
			Quality:  spec,
			Strategy: platform.StrategyFor(tag),
		})
		if err != nil {
			return "", err
		}
		input = packaging.Order(files)[0]
	}

	var plan *remap.Plan
	if req.LeftChannel != nil && req.RightChannel != nil {
		topology, err := ffprobe.Probe(ctx, s.daemon.cfg.Tools.FFprobeBinary, input)
		if err != nil {
			return "", err
		}
		built, err := remap.Build(topology, remap.Mapping{
			Left:  *req.LeftChannel,
			Right: *req.RightChannel,
		})
		if err != nil {
			return "", err
		}
		plan = &built
	}

	outputName := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if isRemoteInput(req.Input) {
		// Keep the transcode output distinct from the fetched source.
		outputName += ".converted"
	}
	return s.daemon.ffmpeg.Transcode(ctx, sess, ffmpeg.Request{
		Input:      input,
		Format:     format,
		Quality:    spec,
		Plan:       plan,
		OutputName: outputName,
	})
}

func (s *apiServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "ValidationError", "method not allowed", "")
		return
	}
	var req api.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "malformed request body", "")
		return
	}
	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "key is required", "")
		return
	}
	cancelled := s.daemon.registry.Cancel(req.Key)
	s.writeJSON(w, http.StatusOK, api.CancelResponse{Cancelled: cancelled})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "ValidationError", "method not allowed", "")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status(r.Context()))
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "ValidationError", "method not allowed", "")
		return
	}
	if s.daemon.store == nil {
		s.writeJSON(w, http.StatusOK, api.HistoryResponse{Entries: []api.HistoryEntry{}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.daemon.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "ProcessAbnormalExit", err.Error(), "")
		return
	}
	payload := api.HistoryResponse{Entries: make([]api.HistoryEntry, len(entries))}
	for i, entry := range entries {
		payload.Entries[i] = api.HistoryEntry{
			ID:         entry.ID,
			Key:        entry.Key,
			Kind:       entry.Kind,
			Platform:   entry.Platform,
			Quality:    entry.Quality,
			Format:     entry.Format,
			State:      string(entry.State),
			Detail:     entry.Detail,
			StartedAt:  entry.StartedAt,
			FinishedAt: entry.FinishedAt,
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleProbe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "ValidationError", "method not allowed", "")
		return
	}
	var req api.ProbeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "ValidationError", "malformed request body", "")
		return
	}
	toolCtx, cancel := s.toolContext(r.Context())
	defer cancel()
	topology, err := ffprobe.Probe(toolCtx, s.daemon.cfg.Tools.FFprobeBinary, req.Input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payload := api.ProbeResponse{
		Streams:               make([]api.ProbeStream, len(topology.Streams)),
		AggregateChannelCount: topology.AggregateChannelCount(),
		MultiStream:           topology.MultiStream(),
	}
	for i, stream := range topology.Streams {
		payload.Streams[i] = api.ProbeStream{
			Index:         stream.Index,
			CodecName:     stream.CodecName,
			Channels:      stream.Channels,
			ChannelLayout: stream.ChannelLayout,
			SampleRate:    stream.SampleRate,
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// watch runs the liveness watchdog for the session until the request
// context ends or the session finishes.
func (s *apiServer) watch(r *http.Request, sess *session.Session) {
	interval := s.daemon.cfg.WatchdogInterval()
	go s.daemon.registry.Watch(context.Background(), sess.Key, interval, func() bool {
		return r.Context().Err() == nil
	})
}

// record appends a terminal session to the ledger when it is enabled.
func (s *apiServer) record(sess *session.Session, platformTag, tier, format string, err error) {
	if s.daemon.store == nil {
		return
	}
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	recordErr := s.daemon.store.Record(ctx, historyEntry(sess, platformTag, tier, format, detail))
	if recordErr != nil {
		s.log().Warn("history record failed",
			logging.String(logging.FieldSessionKey, sess.Key),
			logging.Error(recordErr))
	}
}

func historyEntry(sess *session.Session, platformTag, tier, format, detail string) history.Entry {
	return history.Entry{
		Key:        sess.Key,
		Kind:       sess.Kind,
		Platform:   platformTag,
		Quality:    tier,
		Format:     format,
		State:      sess.State(),
		Detail:     detail,
		StartedAt:  sess.StartedAt,
		FinishedAt: time.Now(),
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, kind, message, guidance string) {
	s.writeJSON(w, status, api.ErrorResponse{
		ErrorKind:        kind,
		Message:          message,
		PlatformGuidance: guidance,
	})
}

// writeServiceError maps a taxonomy error onto an HTTP status and the
// structured error body.
func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	kind := services.Kind(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrChannelIndexOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrPlatformAuthRequired):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrAudioTopologyEmpty):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNoOutputProduced):
		status = http.StatusBadGateway
	}
	s.writeError(w, status, kind, err.Error(), services.GuidanceFor(err))
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}

func isRemoteInput(input string) bool {
	lowered := strings.ToLower(input)
	return strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://")
}
