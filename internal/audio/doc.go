// Package audio decodes archive WAV recordings and splits multi-channel
// buffers into per-channel mono signals.
//
// Classify is a pure function over an in-memory PCM buffer: mono input is
// returned unchanged and stereo input yields left (channel 0) and right
// (channel 1) buffers. Channels beyond index 1 are ignored. Writing split
// channels to disk goes through Scratch, a per-file temporary directory that
// is removed once the file has been processed.
package audio
