package docsource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Default page dimensions when a page carries no usable MediaBox (US letter).
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Options configure Open.
type Options struct {
	Workers int          // page parse concurrency; defaults to min(NumCPU, 4)
	Logger  *slog.Logger // defaults to slog.Default()
}

// Open reads and validates the PDF at path and materializes every page.
// Password-protected files are reported via ErrEncrypted.
func Open(ctx context.Context, path string, opts Options) (*Document, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 4 {
			workers = 4
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		if isEncryptedErr(err) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEncrypted)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	outline := readOutline(f, conf, log)

	lf, reader, err := pdf.Open(path)
	if err != nil {
		if isEncryptedErr(err) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEncrypted)
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer lf.Close()

	pageCount := reader.NumPage()
	if pctx.PageCount != pageCount {
		log.Debug("page count mismatch between readers",
			"validated", pctx.PageCount, "parsed", pageCount)
	}

	doc := &Document{
		Filename:  filepath.Base(path),
		PageCount: pageCount,
		Outline:   outline,
		Pages:     make([]Page, pageCount),
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 1; i <= pageCount; i++ {
		wg.Add(1)
		go func(pageNr int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			doc.Pages[pageNr-1] = parsePage(reader, pageNr, log)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("document opened",
		"file", doc.Filename, "pages", pageCount, "outline_entries", len(outline))
	return doc, nil
}

// parsePage extracts one page's layout, text, and links. Content-stream
// parsing panics on some malformed files, so recover into an empty page.
func parsePage(reader *pdf.Reader, pageNr int, log *slog.Logger) (page Page) {
	page = Page{Number: pageNr, Width: defaultPageWidth, Height: defaultPageHeight}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("failed to parse page content", "page", pageNr, "panic", r)
			page.Blocks = nil
			page.Links = nil
			page.Text = ""
		}
	}()

	p := reader.Page(pageNr)
	if p.V.IsNull() {
		return page
	}

	if w, h, ok := pageSize(p); ok {
		page.Width, page.Height = w, h
	}
	page.Blocks, page.Text = assemblePage(p.Content().Text, page.Height)
	page.Links = pageLinks(p, page.Height)
	return page
}

// pageSize resolves the MediaBox, walking Parent nodes for inherited boxes.
func pageSize(p pdf.Page) (width, height float64, ok bool) {
	box := p.V.Key("MediaBox")
	cur := p.V
	for box.IsNull() {
		parent := cur.Key("Parent")
		if parent.IsNull() {
			return 0, 0, false
		}
		cur = parent
		box = cur.Key("MediaBox")
	}
	if box.Kind() != pdf.Array || box.Len() < 4 {
		return 0, 0, false
	}
	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	width = math.Abs(x1 - x0)
	height = math.Abs(y1 - y0)
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// pageLinks collects link annotation rects in top-origin coordinates.
// Internal destinations are kept with an empty URI.
func pageLinks(p pdf.Page, pageHeight float64) []Link {
	annots := p.V.Key("Annots")
	if annots.IsNull() || annots.Kind() != pdf.Array {
		return nil
	}
	var links []Link
	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if annot.IsNull() || annot.Key("Subtype").Name() != "Link" {
			continue
		}
		rect := annot.Key("Rect")
		if rect.IsNull() || rect.Kind() != pdf.Array || rect.Len() < 4 {
			continue
		}
		x0 := math.Min(rect.Index(0).Float64(), rect.Index(2).Float64())
		x1 := math.Max(rect.Index(0).Float64(), rect.Index(2).Float64())
		yLo := math.Min(rect.Index(1).Float64(), rect.Index(3).Float64())
		yHi := math.Max(rect.Index(1).Float64(), rect.Index(3).Float64())

		uri := ""
		if action := annot.Key("A"); !action.IsNull() {
			if v := action.Key("URI"); !v.IsNull() {
				uri = v.Text()
			}
		}
		links = append(links, Link{
			URI: uri,
			Rect: Rect{
				X0: x0,
				Y0: pageHeight - yHi,
				X1: x1,
				Y1: pageHeight - yLo,
			},
		})
	}
	return links
}

// readOutline flattens the bookmark tree. A document without bookmarks is
// normal, so failures only log.
func readOutline(rs io.ReadSeeker, conf *model.Configuration, log *slog.Logger) []OutlineEntry {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil
	}
	bms, err := api.Bookmarks(rs, conf)
	if err != nil {
		log.Debug("no outline available", "error", err)
		return nil
	}
	return flattenBookmarks(bms, 1, nil)
}

func flattenBookmarks(bms []pdfcpu.Bookmark, level int, out []OutlineEntry) []OutlineEntry {
	for _, bm := range bms {
		out = append(out, OutlineEntry{
			Level:     level,
			Title:     bm.Title,
			StartPage: bm.PageFrom,
		})
		if len(bm.Kids) > 0 {
			out = flattenBookmarks(bm.Kids, level+1, out)
		}
	}
	return out
}

func isEncryptedErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
