// Package output provides deterministic YAML/JSON serialization and output
// writers for the listfilter CLI.
//
// The package is organized around three concerns:
//
//   - Serialization (serializer.go): Canonical YAML/JSON rendering of report
//     documents with deterministic key ordering.
//
//   - Writers (writer.go): Pluggable output destinations via the [Writer]
//     interface, with [StdoutWriter] and [FileWriter] implementations.
//
//   - Format registry (registry.go): Maps format names to serializers so
//     commands can resolve their --format flags.
package output
