// Package docmerge merges answer sets into document templates.
//
// A template is plain text, or the main document XML of a DOCX file, that
// carries three kinds of directives:
//
//	{{ name }}                               - Variable, replaced by its answer
//	{{ name, label: Full name, hint: ... }}  - Variable with form metadata
//	[[IF name]] ... [[END IF]]               - Conditional block
//	[[REPEAT FOR name]] ... [[END REPEAT]]   - Repeated once per answer row
//
// Directive names are opaque identifiers. Keywords are upper case and may be
// surrounded by whitespace inside the brackets.
//
// # Quick Start
//
//	answers := docmerge.AnswerMap{
//	    "client_name": docmerge.Text("Alice"),
//	    "is_company":  docmerge.Bool(true),
//	}
//
//	out, err := docmerge.Render("Dear {{client_name}},", answers)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For DOCX files use an Engine, which repairs directives split across runs
// before merging:
//
//	engine := docmerge.New()
//	err := engine.RenderDocx(file, size, answers, output)
//
// # Parsing
//
// Tokenize turns a template into a tree of Elements (PlainText, Variable,
// Conditional, RepeatingGroup). Each element gets a fresh identifier, so two
// parses of the same text never share IDs. Malformed nesting is reported as a
// *StructuralError which matches ErrUnmatchedOpen, ErrUnexpectedClose or
// ErrMismatchedClose with errors.Is:
//
//	_, err := docmerge.Tokenize("[[IF a]]text")
//	if errors.Is(err, docmerge.ErrUnmatchedOpen) {
//	    // ...
//	}
//
// # Merging
//
// Answers are Values: Bool, Number, Text, Date or Rows. A missing answer is
// Absent, which renders as empty text, is false in a conditional and yields
// no rows in a repeat. Inside a repeating block names resolve against the
// current row only; the outer answers are not visible. Substituted values
// are escaped for XML, template text is copied as is.
//
// # Configuration
//
// The global configuration is read from the environment at start up:
//
//	DOCMERGE_CACHE_MAX_SIZE   scans kept in the engine cache (default 100, 0 disables)
//	DOCMERGE_CACHE_TTL        cache entry lifetime, e.g. "10m" (default none)
//	DOCMERGE_LOG_LEVEL        debug, info, warn, error or off (default info)
//	DOCMERGE_LOG_FORMAT       text or json (default text)
//	DOCMERGE_COALESCE_RUNS    merge split DOCX runs before scanning (default true)
//
// # Sub-packages
//
//   - runs: coalescing of WordprocessingML text runs
//   - docx: reading and rewriting the main part of a DOCX archive
//   - form: form field model derived from a template and collection of submitted values
package docmerge
