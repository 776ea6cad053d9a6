// Package runs repairs template directives that word processors split across
// several WordprocessingML runs.
//
// Word stores a paragraph as a sequence of runs (<w:r>), each carrying its own
// formatting. Spell checking, revision ids and partial formatting frequently
// break a token such as {{client_name}} into "{{", "client_" and "name}}" in
// three different runs, which no pattern over the raw markup can recognise.
//
// # Passes
//
// Coalesce works on plain text runs, meaning runs holding optional run
// properties and a single <w:t> element:
//
//  1. Adjacent runs with identical run properties are merged. This never
//     changes how the document looks.
//  2. A run whose text leaves a {{ or [[ directive open absorbs the
//     following runs until the directive closes. Absorbed runs lose their own
//     formatting and take the formatting of the first run. Once the
//     directive closes, only runs formatted like the first one keep joining.
//
// Runs are adjacent when only whitespace or <w:proofErr/> markers separate
// them. Breaks, tabs, drawings, bookmarks, hyperlinks and paragraph
// boundaries all stop merging.
//
// # Usage
//
//	fixed := runs.Coalesce(documentXML)
//	output, err := docmerge.Render(fixed, answers)
//
// The package is pure: it keeps no state and does not import docmerge.
package runs
