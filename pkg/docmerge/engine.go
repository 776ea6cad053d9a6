package docmerge

import (
	"io"

	"github.com/benjaminschreck/go-docmerge/pkg/docmerge/docx"
	"github.com/benjaminschreck/go-docmerge/pkg/docmerge/runs"
)

// Engine provides the main API for working with templates.
// Use New() to create a new engine instance. An Engine is safe for
// concurrent use; it keeps no per-call state beyond its scan cache.
type Engine struct {
	config *Config
	cache  *TokenCache
}

// defaultEngine serves the package-level Tokenize, Render and Validate.
var defaultEngine = NewWithConfig(DefaultConfig())

// New creates a new engine from the global configuration.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(config *Config) *Engine {
	config = NewConfigWithDefaults(config)
	return &Engine{
		config: config,
		cache: NewTokenCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// Cache returns the engine's scan cache.
func (e *Engine) Cache() *TokenCache {
	return e.cache
}

func (e *Engine) scan(input string) []Token {
	return e.cache.Scan(input)
}

// Tokenize parses input into an element tree with fresh identifiers.
func (e *Engine) Tokenize(input string) ([]Element, error) {
	return Build(input, e.scan(input))
}

// Validate checks directive nesting without building a tree.
func (e *Engine) Validate(input string) error {
	_, err := matchBlocks(input, e.scan(input))
	return err
}

// Render merges answers into input.
func (e *Engine) Render(input string, answers AnswerMap) (string, error) {
	return renderTokens(input, e.scan(input), answers)
}

// RenderElements merges answers into a tree built by Tokenize.
func (e *Engine) RenderElements(elements []Element, answers AnswerMap) string {
	return RenderElements(elements, answers)
}

// prepareMarkup applies run coalescing when the engine is configured for it.
func (e *Engine) prepareMarkup(markup string) string {
	if !e.config.CoalesceRuns {
		return markup
	}
	return runs.Coalesce(markup)
}

// TokenizeDocx flattens the main document of a DOCX package and parses it.
// The markup RenderDocx would scan is checked as well, so a directive that is
// only whole in the flattened text (split by a hyperlink, say) is rejected
// here rather than at render time.
func (e *Engine) TokenizeDocx(r io.ReaderAt, size int64) ([]Element, error) {
	pkg, err := docx.Open(r, size)
	if err != nil {
		return nil, err
	}

	documentXML, err := pkg.DocumentXML()
	if err != nil {
		return nil, err
	}

	markup := e.prepareMarkup(documentXML)
	text, err := docx.Text(markup)
	if err != nil {
		return nil, err
	}

	where := map[string]interface{}{"part": docx.DocumentPartName}
	elements, err := e.Tokenize(text)
	if err != nil {
		return nil, WithContext(err, "parsing document", where)
	}
	if err := e.Validate(markup); err != nil {
		return nil, WithContext(err, "checking document markup", where)
	}
	return elements, nil
}

// RenderDocx merges answers into the main document of a DOCX package and
// writes the resulting package to w. Substituted values are escaped, so the
// document stays well formed.
func (e *Engine) RenderDocx(r io.ReaderAt, size int64, answers AnswerMap, w io.Writer) error {
	pkg, err := docx.Open(r, size)
	if err != nil {
		return err
	}

	documentXML, err := pkg.DocumentXML()
	if err != nil {
		return err
	}

	rendered, err := e.Render(e.prepareMarkup(documentXML), answers)
	if err != nil {
		return WithContext(err, "rendering document", map[string]interface{}{"part": docx.DocumentPartName})
	}

	GetLogger().WithFields(Fields{
		"parts":         len(pkg.Parts()),
		"input_length":  len(documentXML),
		"output_length": len(rendered),
	}).Debug("Rendered DOCX document")

	return pkg.WriteDocument(w, rendered)
}

// Validate checks directive nesting using the default engine.
func Validate(input string) error {
	return defaultEngine.Validate(input)
}
