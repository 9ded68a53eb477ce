// Package epub reads EPUB containers and merges their spine documents
// into a single HTML document suitable for translation and browser
// viewing.
package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// container mirrors META-INF/container.xml.
type container struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath string `xml:"full-path,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// packageDoc mirrors the OPF package document.
type packageDoc struct {
	Metadata struct {
		Title    string `xml:"title"`
		Creator  string `xml:"creator"`
		Language string `xml:"language"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID        string `xml:"id,attr"`
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Itemrefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// Item is one file of the container.
type Item struct {
	Name    string
	Content []byte
}

// Book is a fully loaded EPUB container.
type Book struct {
	Title    string
	Creator  string
	Language string

	items  []Item
	byName map[string][]byte
	spine  []string // chapter paths in reading order
}

func isDocumentType(mediaType string) bool {
	switch mediaType {
	case "application/xhtml+xml", "text/html":
		return true
	}
	return false
}

// Open reads an EPUB file into memory.
func Open(epubPath string) (*Book, error) {
	r, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("opening EPUB: %w", err)
	}
	defer r.Close()

	book := &Book{byName: make(map[string][]byte)}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		book.items = append(book.items, Item{Name: f.Name, Content: content})
		book.byName[f.Name] = content
	}

	opfPath, err := book.rootfilePath()
	if err != nil {
		return nil, err
	}

	if err := book.loadPackage(opfPath); err != nil {
		return nil, err
	}

	return book, nil
}

func (b *Book) rootfilePath() (string, error) {
	content, ok := b.byName["META-INF/container.xml"]
	if !ok {
		return "", fmt.Errorf("container.xml not found")
	}

	var c container
	if err := xml.Unmarshal(content, &c); err != nil {
		return "", fmt.Errorf("parsing container.xml: %w", err)
	}
	if len(c.Rootfiles.Rootfile) == 0 {
		return "", fmt.Errorf("no rootfile in container.xml")
	}
	return c.Rootfiles.Rootfile[0].FullPath, nil
}

func (b *Book) loadPackage(opfPath string) error {
	content, ok := b.byName[opfPath]
	if !ok {
		return fmt.Errorf("package document %s not found", opfPath)
	}

	var pkg packageDoc
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return fmt.Errorf("parsing %s: %w", opfPath, err)
	}

	b.Title = strings.TrimSpace(pkg.Metadata.Title)
	b.Creator = strings.TrimSpace(pkg.Metadata.Creator)
	b.Language = strings.TrimSpace(pkg.Metadata.Language)

	type manifestEntry struct {
		href      string
		mediaType string
	}
	byID := make(map[string]manifestEntry)
	for _, item := range pkg.Manifest.Items {
		byID[item.ID] = manifestEntry{href: item.Href, mediaType: item.MediaType}
	}

	opfDir := path.Dir(opfPath)
	for _, ref := range pkg.Spine.Itemrefs {
		// Navigation documents are not book content.
		if ref.IDRef == "nav" || ref.IDRef == "ncx" {
			continue
		}
		entry, ok := byID[ref.IDRef]
		if !ok || !isDocumentType(entry.mediaType) {
			continue
		}
		b.spine = append(b.spine, path.Clean(path.Join(opfDir, entry.href)))
	}

	return nil
}

// Chapters returns the spine document paths in reading order.
func (b *Book) Chapters() []string {
	return b.spine
}

// Content returns the raw content of an item by its container path.
func (b *Book) Content(name string) ([]byte, bool) {
	content, ok := b.byName[name]
	return content, ok
}

// ExportResources writes every item of the container into dir,
// preserving internal paths, so the merged document's relative image
// and stylesheet references resolve.
func (b *Book) ExportResources(dir string) error {
	root := filepath.Clean(dir)
	for _, item := range b.items {
		target := filepath.Join(root, filepath.FromSlash(item.Name))
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("item %q escapes output directory", item.Name)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, item.Content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// chapterReader returns a reader over a chapter's content.
func (b *Book) chapterReader(name string) (io.Reader, bool) {
	content, ok := b.byName[name]
	if !ok {
		return nil, false
	}
	return bytes.NewReader(content), true
}
