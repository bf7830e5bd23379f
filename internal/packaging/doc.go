// Package packaging turns a produced file set into the response the
// client receives: one raw stream or one zip archive, with cleanup
// guaranteed on every exit path including mid-stream disconnects.
package packaging
