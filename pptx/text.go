package pptx

import "strings"

// SlideText returns the visible text of the slide at index i (0-indexed,
// current slide order). Paragraphs are joined with newlines; runs within a
// paragraph are concatenated. Returns "" for an out-of-range index or a
// slide part that fails to parse.
func (p *Package) SlideText(i int) string {
	if i < 0 || i >= len(p.slides) {
		return ""
	}
	pt := p.part(p.slides[i].partName)
	if pt == nil {
		return ""
	}

	var sld slideXML
	if err := newPartDecoder(pt.data).Decode(&sld); err != nil {
		return ""
	}

	var b strings.Builder
	for _, sp := range sld.CSld.SpTree.Sp {
		writeShapeText(&b, &sp)
	}
	for _, grp := range sld.CSld.SpTree.GrpSp {
		writeGroupText(&b, &grp)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NotesText returns the speaker notes of the slide at index i, or "" when
// the slide has no notes part. The slide-image placeholder that PowerPoint
// puts on every notes page is skipped.
func (p *Package) NotesText(i int) string {
	if i < 0 || i >= len(p.slides) {
		return ""
	}
	ref := p.slides[i]
	if ref.notesName == "" {
		return ""
	}
	pt := p.part(ref.notesName)
	if pt == nil {
		return ""
	}

	var notes notesSlideXML
	if err := newPartDecoder(pt.data).Decode(&notes); err != nil {
		return ""
	}

	var b strings.Builder
	for _, sp := range notes.CSld.SpTree.Sp {
		if sp.NvSpPr.NvPr.Ph != nil && sp.NvSpPr.NvPr.Ph.Type == "sldImg" {
			continue
		}
		writeShapeText(&b, &sp)
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeShapeText appends a shape's paragraph text, one line per paragraph.
func writeShapeText(b *strings.Builder, sp *spXML) {
	if sp.TxBody == nil {
		return
	}
	for _, para := range sp.TxBody.P {
		text := paragraphText(&para)
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
}

// writeGroupText walks grouped shapes recursively.
func writeGroupText(b *strings.Builder, grp *grpSpXML) {
	for _, sp := range grp.Sp {
		writeShapeText(b, &sp)
	}
	for _, nested := range grp.GrpSp {
		writeGroupText(b, &nested)
	}
}

// paragraphText concatenates a paragraph's runs and field values.
func paragraphText(para *pXML) string {
	var b strings.Builder
	for _, run := range para.R {
		b.WriteString(run.T)
	}
	for _, fld := range para.Fld {
		b.WriteString(fld.T)
	}
	return strings.TrimSpace(b.String())
}
