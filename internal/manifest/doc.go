// Package manifest handles the variant manifests that describe how a step is
// scaffolded: which language directories get a placeholder README.md, what
// each placeholder contains, and which auxiliary directories are created.
// Built-in variants are embedded in the binary; user manifests are validated
// against the same JSON Schema. The package also validates properties.json
// documents of existing steps.
package manifest
