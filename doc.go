// Package epublate converts EPUB e-books into a single merged HTML
// document and machine-translates their textual content while leaving
// markup structure, attributes, and inline styling untouched.
//
// Translation works block by block (paragraphs, list items, headings,
// table cells, captions, blockquotes). Within a block, every writable
// text position is collected in rendering order, joined into
// size-bounded delimited payloads to keep the request count low, sent
// through a caching and retrying client, and written back into the
// exact position it came from. Chess move notation embedded in the
// prose is detected and shielded from the translation service.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/epublate"
//	    "github.com/ZaguanLabs/epublate/cache"
//	    "github.com/ZaguanLabs/epublate/provider"
//	)
//
//	func main() {
//	    t := epublate.NewTranslator("it", provider.NewGoogleProvider(provider.GoogleConfig{}),
//	        epublate.WithCache(cache.NewMemoryCache(0)),
//	    )
//
//	    result, err := t.TranslateDocument(context.Background(), "<p>Hello <b>world</b></p>")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Content)
//	}
//
// The epub subpackage turns an .epub container into the merged HTML
// document this package consumes.
package epublate
