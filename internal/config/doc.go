// Package config loads, normalizes, and validates orchive configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a local .env file, and honours
// environment fallbacks such as OPENAI_API_KEY and HF_TOKEN. The Config type
// centralizes every knob the transcription and annotation stages need, so the
// archive root, run output tree, and backend credentials are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
