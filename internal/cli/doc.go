// Package cli renders fibseq results on a terminal.
//
// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayProgress], [DisplayTerms].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatStatus], [FormatTermList].
//
//   - Generate* functions emit scripts, such as [GenerateCompletion].
package cli
