package api

import "time"

// DownloadRequest starts an extraction. The URL doubles as the session
// key, so one URL is in flight at most once.
type DownloadRequest struct {
	URL      string `json:"url"`
	Quality  string `json:"quality,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// ConvertRequest starts a transcode. Input is a local path or a URL;
// URLs are extracted first and the result is transcoded. LeftChannel and
// RightChannel, when both set, request a stereo channel remap using
// aggregate channel indices.
type ConvertRequest struct {
	Input        string `json:"input"`
	Format       string `json:"format"`
	Quality      string `json:"quality,omitempty"`
	LeftChannel  *int   `json:"leftChannel,omitempty"`
	RightChannel *int   `json:"rightChannel,omitempty"`
}

// CancelRequest cancels the session for a key.
type CancelRequest struct {
	Key string `json:"key"`
}

// CancelResponse reports whether a live session was found and cancelled.
type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

// ErrorResponse is the structured failure body.
type ErrorResponse struct {
	ErrorKind        string `json:"errorKind"`
	Message          string `json:"message"`
	PlatformGuidance string `json:"platformGuidance,omitempty"`
}

// SessionInfo describes one in-flight session.
type SessionInfo struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	State     string    `json:"state"`
	StartedAt time.Time `json:"startedAt"`
}

// DependencyStatus reports availability of one external tool.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// StatusResponse is the daemon status payload.
type StatusResponse struct {
	Running       bool               `json:"running"`
	PID           int                `json:"pid"`
	Sessions      []SessionInfo      `json:"sessions"`
	Dependencies  []DependencyStatus `json:"dependencies"`
	HistoryDBPath string             `json:"historyDbPath,omitempty"`
	LockFilePath  string             `json:"lockFilePath,omitempty"`
}

// HistoryEntry is one finished request in the ledger.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	Key        string    `json:"key"`
	Kind       string    `json:"kind"`
	Platform   string    `json:"platform,omitempty"`
	Quality    string    `json:"quality,omitempty"`
	Format     string    `json:"format,omitempty"`
	State      string    `json:"state"`
	Detail     string    `json:"detail,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// HistoryResponse lists ledger entries, newest first.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// ProbeRequest inspects the audio topology of a local file.
type ProbeRequest struct {
	Input string `json:"input"`
}

// ProbeStream describes one audio stream in a probe result.
type ProbeStream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codecName,omitempty"`
	Channels      int    `json:"channels"`
	ChannelLayout string `json:"channelLayout,omitempty"`
	SampleRate    string `json:"sampleRate,omitempty"`
}

// ProbeResponse is the normalized topology payload.
type ProbeResponse struct {
	Streams               []ProbeStream `json:"streams"`
	AggregateChannelCount int           `json:"aggregateChannelCount"`
	MultiStream           bool          `json:"multiStream"`
}
