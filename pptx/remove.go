package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
)

// RemoveSlides removes the slides at the given indices. Indices are taken
// against the slide order at the time of the call, and are processed from
// highest to lowest so that earlier removals never shift an index that is
// still pending. For each removed slide the slide-list entry, the
// relationship entry, the slide part, its relationships part, its notes
// part, and the matching content-type overrides are all dropped.
//
// An out-of-range or duplicate index is a caller bug and returns an error
// wrapping ErrInvariant; the package is left partially modified and must be
// discarded.
func (p *Package) RemoveSlides(indices []int) error {
	if len(indices) == 0 {
		return nil
	}

	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	for i, idx := range sorted {
		if idx < 0 || idx >= len(p.slides) {
			return fmt.Errorf("%w: remove index %d out of range [0,%d)", ErrInvariant, idx, len(p.slides))
		}
		if i > 0 && idx == sorted[i-1] {
			return fmt.Errorf("%w: duplicate remove index %d", ErrInvariant, idx)
		}
	}

	for _, idx := range sorted {
		if err := p.removeSlide(idx); err != nil {
			return err
		}
	}
	return nil
}

// removeSlide removes one slide by its current index.
func (p *Package) removeSlide(i int) error {
	ref := p.slides[i]

	// Drop the sldId entry from presentation.xml.
	pres := p.part(presentationPart)
	spliced, found, err := removeXMLElement(pres.data, func(se xml.StartElement) bool {
		if se.Name.Local != "sldId" || se.Name.Space != nsPresentationML {
			return false
		}
		for _, attr := range se.Attr {
			if attr.Name.Space == nsRelationships && attr.Name.Local == "id" {
				return attr.Value == ref.relID
			}
		}
		return false
	})
	if err != nil {
		return fmt.Errorf("pptx: rewriting %s: %w", presentationPart, err)
	}
	if !found {
		return fmt.Errorf("%w: slide %s not in slide list", ErrInvariant, ref.id)
	}
	pres.data = spliced

	// Drop the relationship entry, both from the part bytes and from the
	// in-memory table the invariant check reads.
	rels := p.part(presentationRelsPart)
	spliced, found, err = removeXMLElement(rels.data, func(se xml.StartElement) bool {
		if se.Name.Local != "Relationship" || se.Name.Space != nsPackageRels {
			return false
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "Id" {
				return attr.Value == ref.relID
			}
		}
		return false
	})
	if err != nil {
		return fmt.Errorf("pptx: rewriting %s: %w", presentationRelsPart, err)
	}
	if !found {
		return fmt.Errorf("%w: relationship %s not in table", ErrInvariant, ref.relID)
	}
	rels.data = spliced
	for j := range p.rels.Relationship {
		if p.rels.Relationship[j].ID == ref.relID {
			p.rels.Relationship = append(p.rels.Relationship[:j], p.rels.Relationship[j+1:]...)
			break
		}
	}

	// Invalidate the slide's parts in the arena.
	p.removePartAndOverride(ref.partName)
	if ref.relsName != "" {
		p.removePart(ref.relsName)
	}
	if ref.notesName != "" {
		p.removePartAndOverride(ref.notesName)
		notesRels := path.Join(path.Dir(ref.notesName), "_rels", path.Base(ref.notesName)+".rels")
		p.removePart(notesRels)
	}

	// Splice the slide out of the ordered list.
	p.slides = append(p.slides[:i], p.slides[i+1:]...)
	return nil
}

// removePart marks an arena entry as removed. Missing names are ignored.
func (p *Package) removePart(name string) {
	if i, ok := p.index[name]; ok {
		p.parts[i].removed = true
	}
}

// removePartAndOverride removes a part and its [Content_Types].xml Override
// entry, keeping the content-type table consistent with the arena.
func (p *Package) removePartAndOverride(name string) {
	p.removePart(name)

	ct := p.part(contentTypesPart)
	if ct == nil {
		return
	}
	spliced, found, err := removeXMLElement(ct.data, func(se xml.StartElement) bool {
		if se.Name.Local != "Override" || se.Name.Space != nsContentTypes {
			return false
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "PartName" {
				return attr.Value == "/"+name
			}
		}
		return false
	})
	if err == nil && found {
		ct.data = spliced
	}
}

// removeXMLElement splices the first element matched by match out of data,
// including everything up to and including its end tag. The surrounding
// bytes are untouched, which keeps namespace declarations, attribute order,
// and formatting of the rest of the document byte-identical.
//
// Offsets come from the decoder's raw input position, so no charset reader
// may be installed here; OOXML parts are UTF-8.
func removeXMLElement(data []byte, match func(xml.StartElement) bool) ([]byte, bool, error) {
	d := xml.NewDecoder(bytes.NewReader(data))

	for {
		start := d.InputOffset()
		tok, err := d.Token()
		if err == io.EOF {
			return data, false, nil
		}
		if err != nil {
			return nil, false, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok || !match(se) {
			continue
		}

		// Consume to the matching end tag. Self-closing elements yield an
		// immediate EndElement, so the same loop covers both forms.
		depth := 1
		for depth > 0 {
			tok, err := d.Token()
			if err != nil {
				return nil, false, err
			}
			switch tok.(type) {
			case xml.StartElement:
				depth++
			case xml.EndElement:
				depth--
			}
		}
		end := d.InputOffset()

		out := make([]byte, 0, len(data)-int(end-start))
		out = append(out, data[:start]...)
		out = append(out, data[end:]...)
		return out, true, nil
	}
}
