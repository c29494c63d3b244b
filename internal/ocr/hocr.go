package ocr

import (
	"html"
	"strconv"
	"strings"
)

// hocrWord is one recognized word from Tesseract's hOCR output.
type hocrWord struct {
	Text       string
	Confidence float64
	BBox       [4]float64
}

// parseHOCRWords extracts word spans from an hOCR document. Tesseract
// emits one <span class='ocrx_word'> per word with a title attribute like
// "bbox 100 50 180 80; x_wconf 87". Word confidence is on a 0..100 scale
// and is normalized here; a confidence that does not parse as a number
// becomes 0.0 rather than an error.
func parseHOCRWords(hocr string) []hocrWord {
	var words []hocrWord
	rest := hocr
	for {
		idx := strings.Index(rest, "ocrx_word")
		if idx < 0 {
			break
		}
		rest = rest[idx+len("ocrx_word"):]

		title, ok := attrValue(rest, "title=")
		if !ok {
			continue
		}

		start := strings.Index(rest, ">")
		end := strings.Index(rest, "</span>")
		if start < 0 || end < 0 || start >= end {
			continue
		}
		text := strings.TrimSpace(html.UnescapeString(stripTags(rest[start+1 : end])))
		rest = rest[end:]
		if text == "" {
			continue
		}

		bbox, conf := parseHOCRTitle(title)
		words = append(words, hocrWord{Text: text, Confidence: conf, BBox: bbox})
	}
	return words
}

// parseHOCRTitle reads the bbox coordinates and the x_wconf value out of an
// hOCR title attribute.
func parseHOCRTitle(title string) ([4]float64, float64) {
	var bbox [4]float64
	conf := 0.0
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bbox":
			if len(fields) == 5 {
				for i := 0; i < 4; i++ {
					v, err := strconv.ParseFloat(fields[i+1], 64)
					if err != nil {
						v = 0
					}
					bbox[i] = v
				}
			}
		case "x_wconf":
			if len(fields) == 2 {
				conf = parseWordConfidence(fields[1])
			}
		}
	}
	return bbox, conf
}

// parseWordConfidence maps a native 0..100 confidence string to [0,1].
// Unparsable values map to 0.0.
func parseWordConfidence(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	conf := v / 100
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// attrValue returns the quoted value of the first occurrence of attr
// (e.g. `title=`) in s, accepting either quote style.
func attrValue(s, attr string) (string, bool) {
	idx := strings.Index(s, attr)
	if idx < 0 || idx+len(attr) >= len(s) {
		return "", false
	}
	rest := s[idx+len(attr):]
	quote := rest[0]
	if quote != '\'' && quote != '"' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		return "", false
	}
	return rest[1 : 1+end], true
}

// stripTags removes any nested markup (<strong>, <em>) inside a word span.
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
