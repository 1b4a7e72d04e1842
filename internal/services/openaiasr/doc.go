// Package openaiasr transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint.
package openaiasr
