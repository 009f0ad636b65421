package hocr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrNoPages is returned when the input contains no ocr_page element.
var ErrNoPages = errors.New("no ocr_page elements found in hOCR data")

// Element classes that Tesseract uses for text lines.
var lineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_header":    true,
	"ocr_caption":   true,
	"ocr_textfloat": true,
}

// ParseHOCR converts raw hOCR data into a structured HOCR object.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decode(data)
	if err != nil {
		return result, err
	}
	doc, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR markup: %w", err)
	}

	extractDocumentMeta(&result, doc)

	walk(doc, func(n *html.Node, class string) bool {
		if class != "ocr_page" {
			return false
		}
		page := processPage(n)
		page.PageNumber = len(result.Pages) + 1
		result.Pages = append(result.Pages, page)
		return true
	})

	if len(result.Pages) == 0 {
		return result, ErrNoPages
	}
	return result, nil
}

// decode converts single-byte encoded documents to UTF-8 based on the
// charset declared in the markup.
func decode(data []byte) ([]byte, error) {
	var dec *encoding.Decoder
	switch declaredCharset(data) {
	case "iso-8859-1", "latin1", "latin-1":
		dec = charmap.ISO8859_1.NewDecoder()
	case "windows-1252", "cp1252":
		dec = charmap.Windows1252.NewDecoder()
	default:
		return data, nil
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hOCR data: %w", err)
	}
	return out, nil
}

func declaredCharset(data []byte) string {
	head := string(data[:min(len(data), 2048)])
	i := strings.Index(strings.ToLower(head), "charset=")
	if i < 0 {
		return "utf-8"
	}
	rest := head[i+len("charset="):]
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == '/' || r == ' '
	})
	if len(fields) == 0 {
		return "utf-8"
	}
	return strings.ToLower(fields[0])
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	return bboxFromProps(ParseTitle(title))
}

func bboxFromProps(props map[string][]string) *BoundingBox {
	v, ok := props["bbox"]
	if !ok || len(v) < 4 {
		return nil
	}
	var c [4]float64
	for i := range c {
		f, err := strconv.ParseFloat(v[i], 64)
		if err != nil {
			return nil
		}
		c[i] = f
	}
	b := NewBoundingBox(c[0], c[1], c[2], c[3])
	return &b
}

// extractDocumentMeta reads the html lang attribute and the head section.
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	root := findElement(doc, "html")
	if root == nil {
		return
	}
	if lang := getAttrVal(root, "lang"); lang != "" {
		result.Language = lang
	} else if lang := getAttrVal(root, "xml:lang"); lang != "" {
		result.Language = lang
	}

	head := findElement(root, "head")
	if head == nil {
		return
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			result.Title = strings.TrimSpace(textContent(c, ""))
		case "meta":
			name, content := getAttrVal(c, "name"), getAttrVal(c, "content")
			if name == "" || content == "" {
				continue
			}
			switch {
			case strings.HasPrefix(name, "ocr-"):
				result.Metadata[name] = content
			case name == "description":
				result.Description = content
			case name == "dc.language" && result.Language == "":
				result.Language = content
			}
		}
	}
}

// walk visits the descendants of n that carry an hOCR class. When visit
// returns true the element's subtree is considered handled and skipped.
func walk(n *html.Node, visit func(*html.Node, string) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if class := hocrClass(c); class != "" && visit(c, class) {
				continue
			}
		}
		walk(c, visit)
	}
}

// hocrClass returns the first ocr_ or ocrx_ class of an element.
func hocrClass(n *html.Node) string {
	for _, class := range strings.Fields(getAttrVal(n, "class")) {
		if strings.HasPrefix(class, "ocr_") || strings.HasPrefix(class, "ocrx_") {
			return class
		}
	}
	return ""
}

// element holds the attributes every hOCR element shares.
type element struct {
	id    string
	lang  string
	title string
	bbox  BoundingBox
	props map[string][]string
}

func readElement(n *html.Node) element {
	e := element{
		id:    getAttrVal(n, "id"),
		lang:  getAttrVal(n, "lang"),
		title: getAttrVal(n, "title"),
	}
	e.props = ParseTitle(e.title)
	if b := bboxFromProps(e.props); b != nil {
		e.bbox = *b
	}
	return e
}

func processPage(n *html.Node) Page {
	e := readElement(n)
	page := Page{ID: e.id, Title: e.title, Lang: e.lang, BBox: e.bbox}
	if img, ok := e.props["image"]; ok && len(img) > 0 {
		page.ImageName = strings.Trim(strings.Join(img, " "), `"`)
	}

	walk(n, func(c *html.Node, class string) bool {
		switch {
		case class == "ocr_carea":
			page.Areas = append(page.Areas, processArea(c))
		case class == "ocr_par":
			page.Paragraphs = append(page.Paragraphs, processParagraph(c))
		case lineClasses[class]:
			page.Lines = append(page.Lines, processLine(c, class))
		case class == "ocrx_word":
			page.Words = append(page.Words, processWord(c))
		default:
			return false
		}
		return true
	})
	return page
}

func processArea(n *html.Node) Area {
	e := readElement(n)
	area := Area{ID: e.id, Lang: e.lang, BBox: e.bbox}
	walk(n, func(c *html.Node, class string) bool {
		switch {
		case class == "ocr_par":
			area.Paragraphs = append(area.Paragraphs, processParagraph(c))
		case lineClasses[class]:
			area.Lines = append(area.Lines, processLine(c, class))
		case class == "ocrx_word":
			area.Words = append(area.Words, processWord(c))
		default:
			return false
		}
		return true
	})
	return area
}

func processParagraph(n *html.Node) Paragraph {
	e := readElement(n)
	par := Paragraph{ID: e.id, Lang: e.lang, BBox: e.bbox}
	walk(n, func(c *html.Node, class string) bool {
		switch {
		case lineClasses[class]:
			par.Lines = append(par.Lines, processLine(c, class))
		case class == "ocrx_word":
			par.Words = append(par.Words, processWord(c))
		default:
			return false
		}
		return true
	})
	return par
}

func processLine(n *html.Node, class string) Line {
	e := readElement(n)
	line := Line{ID: e.id, Class: class, Lang: e.lang, BBox: e.bbox}
	if bl, ok := e.props["baseline"]; ok {
		line.Baseline = strings.Join(bl, " ")
	}
	walk(n, func(c *html.Node, class string) bool {
		if class != "ocrx_word" {
			return false
		}
		line.Words = append(line.Words, processWord(c))
		return true
	})
	return line
}

func processWord(n *html.Node) Word {
	e := readElement(n)
	word := Word{ID: e.id, Lang: e.lang, BBox: e.bbox}
	if conf, ok := e.props["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	word.Text = strings.TrimSpace(textContent(n, ""))
	return word
}

// textContent concatenates the text nodes below n.
func textContent(n *html.Node, acc string) string {
	if n.Type == html.TextNode {
		return acc + n.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		acc = textContent(c, acc)
	}
	return acc
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func getAttrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
