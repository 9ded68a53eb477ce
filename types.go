package epublate

// SkipTags contains tags whose content is never translated. A block
// with one of these tags is counted and skipped; inside a block, these
// elements are opaque to slot extraction.
var SkipTags = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
	"title":  true,
	"meta":   true,
	"link":   true,
	"code":   true,
	"pre":    true,
	"kbd":    true,
	"samp":   true,
}

// ProgressFunc receives one event after every processed block, whether
// translated or skipped. Consumers compute percentage as done/total;
// total never changes during a run.
type ProgressFunc func(done, total int, label string)

// DocumentResult is the outcome of a document translation.
type DocumentResult struct {
	Content          string // Transformed HTML, "<!doctype html>" prefixed
	Blocks           int    // Blocks matched by the selector
	TranslatedBlocks int    // Blocks that went through translation
	SkippedBlocks    int    // Blocks counted without translation (skip tags)
	Requests         int    // Outbound provider requests issued
	CacheHits        int    // Translations served from cache
}
