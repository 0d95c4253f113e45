// Package scaffold creates step directories. It powers the "stephelper create"
// command: one generated identifier becomes the step root, each language from
// the variant manifest gets a directory with a placeholder README.md, auxiliary
// directories are created empty, and properties.json records the step metadata.
//
// Work runs in three stages: root directory, then subdirectories, then files.
// Operations within a stage run concurrently and a failure in one does not
// cancel its siblings. Nothing is rolled back, so a failed call can leave a
// partial tree; the returned Result lists exactly what was created.
package scaffold
