package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// nsDrawingML is the namespace of run text elements (a:t).
const nsDrawingML = "http://schemas.openxmlformats.org/drawingml/2006/main"

// SubstituteText applies replace to the text of every run on the slide at
// index i, in both the slide body and the slide's notes part if it has one.
// A run's text is rewritten in place; run and paragraph boundaries, and all
// formatting attributes, are untouched. replace receives one run's full
// text and returns the text the run should hold.
func (p *Package) SubstituteText(i int, replace func(string) string) error {
	if i < 0 || i >= len(p.slides) {
		return fmt.Errorf("%w: slide index %d out of range [0,%d)", ErrInvariant, i, len(p.slides))
	}

	ref := p.slides[i]
	for _, name := range []string{ref.partName, ref.notesName} {
		if name == "" {
			continue
		}
		pt := p.part(name)
		if pt == nil {
			return fmt.Errorf("%w: part %s is gone", ErrInvariant, name)
		}
		out, err := rewriteRunText(pt.data, replace)
		if err != nil {
			return fmt.Errorf("pptx: rewriting %s: %w", name, err)
		}
		pt.data = out
	}
	return nil
}

// runSpan is the byte range of one a:t element's content, plus the decoded
// text it holds.
type runSpan struct {
	start, end int64
	text       string
}

// rewriteRunText rewrites the content of every a:t element in an XML part.
// Only the element content bytes of changed runs are replaced; everything
// else in the part stays byte-identical. Offsets come from the decoder's
// raw input position, so no charset reader may be installed here.
func rewriteRunText(data []byte, replace func(string) string) ([]byte, error) {
	d := xml.NewDecoder(bytes.NewReader(data))

	var spans []runSpan
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" || se.Name.Space != nsDrawingML {
			continue
		}

		span := runSpan{start: d.InputOffset()}
		var text bytes.Buffer
		depth := 1
		for depth > 0 {
			before := d.InputOffset()
			tok, err := d.Token()
			if err != nil {
				return nil, err
			}
			switch t := tok.(type) {
			case xml.StartElement:
				depth++
			case xml.EndElement:
				depth--
				if depth == 0 {
					span.end = before
				}
			case xml.CharData:
				text.Write(t)
			}
		}
		span.text = text.String()
		spans = append(spans, span)
	}

	var out []byte
	var last int64
	for _, span := range spans {
		replaced := replace(span.text)
		if replaced == span.text {
			continue
		}
		// A self-closed <a:t/> has no content region to write into.
		if span.start == span.end && span.start >= 2 && data[span.start-2] == '/' {
			continue
		}
		if out == nil {
			out = make([]byte, 0, len(data))
		}
		out = append(out, data[last:span.start]...)
		var escaped bytes.Buffer
		if err := xml.EscapeText(&escaped, []byte(replaced)); err != nil {
			return nil, err
		}
		out = append(out, escaped.Bytes()...)
		last = span.end
	}
	if out == nil {
		return data, nil // nothing changed
	}
	return append(out, data[last:]...), nil
}
