package extract

// Extraction strategy names, recorded in result metadata.
const (
	StrategyOutline       = "toc"
	StrategyContentsPage  = "contents_page"
	StrategyFontHeuristic = "font_heuristic"
)

// resultVersion is the format version stamped into every result.
const resultVersion = "1.0"

// Result is the canonical extraction output that every downstream step
// reads: document metadata, the detected section structure, and the cleaned
// per-page text.
type Result struct {
	Metadata Metadata  `json:"metadata"`
	Sections []Section `json:"sections"`
	Pages    []Page    `json:"pages"`
}

// Metadata describes the source document and how it was processed.
type Metadata struct {
	Filename           string `json:"filename"`
	TotalPages         int    `json:"total_pages"`
	ExtractedAt        string `json:"extracted_at"`
	ExtractionStrategy string `json:"extraction_strategy"`
	Version            string `json:"version"`
}

// Section is one entry of the detected document structure. StartPage and
// EndPage are 1-based and inclusive; Level starts at 1 for top-level
// sections.
type Section struct {
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	Level     int    `json:"level"`
	EndPage   int    `json:"end_page"`
}

// Page is the cleaned text of a single page.
type Page struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}
