// Package watch provides file-watching capabilities for listfilter's
// live-reload authoring workflow. It monitors a filter definitions file
// for changes, debounces rapid events, and re-validates the document
// automatically, reporting filter set changes between runs.
package watch
