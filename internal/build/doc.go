// Package build runs the docs navigation pipeline: it resolves the source
// revision, loads documents, validates sidebars, generates routes, enforces
// link policies, renders the homepage features and writes the manifests.
//
// Every entry point (the build, validate and routes commands and the preview
// server) goes through Service.Run. Stages are plain functions over a shared
// BuildState; a fatal stage aborts the run before anything is written.
package build
