package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html/charset"
)

// Package-level errors.
var (
	// ErrMalformedPackage indicates the input bytes are not a valid PPTX
	// package or a mandatory part is missing.
	ErrMalformedPackage = errors.New("pptx: malformed package")

	// ErrInvariant indicates an internal slide or relationship reference
	// became invalid. This is a programmer error, never a recoverable
	// runtime condition.
	ErrInvariant = errors.New("pptx: package invariant violated")
)

// Well-known part names.
const (
	contentTypesPart     = "[Content_Types].xml"
	presentationPart     = "ppt/presentation.xml"
	presentationRelsPart = "ppt/_rels/presentation.xml.rels"
)

// part is one arena entry: a named resource inside the package. Removed
// entries stay in the arena (so indices remain stable) but are skipped at
// serialization time.
type part struct {
	name    string
	data    []byte
	removed bool
}

// slideRef is an entry in the ordered slide list. It references parts in
// the arena by name rather than holding slide content, so removal is an
// arena invalidation plus a list splice.
type slideRef struct {
	id        string // sldId id attribute
	relID     string // r:id into the presentation relationship table
	partName  string // ppt/slides/slideN.xml
	relsName  string // ppt/slides/_rels/slideN.xml.rels ("" if absent)
	notesName string // ppt/notesSlides/notesSlideN.xml ("" if none)
}

// Package is an in-memory PPTX package: an arena of parts, the presentation
// relationship table, and the ordered slide list. A Package is private to
// one generation run and is not safe for concurrent use.
type Package struct {
	parts  []*part
	index  map[string]int
	rels   relationshipsXML
	slides []*slideRef
}

// Open parses a PPTX package from bytes. All state is held in memory; the
// input slice is not retained. It fails with an error wrapping
// ErrMalformedPackage if the bytes are not a zip archive or a mandatory
// part (content types, presentation, presentation relationships) is missing.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPackage, err)
	}

	p := &Package{index: make(map[string]int)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrMalformedPackage, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrMalformedPackage, f.Name, err)
		}
		p.index[f.Name] = len(p.parts)
		p.parts = append(p.parts, &part{name: f.Name, data: content})
	}

	for _, required := range []string{contentTypesPart, presentationPart, presentationRelsPart} {
		if p.part(required) == nil {
			return nil, fmt.Errorf("%w: missing required part %s", ErrMalformedPackage, required)
		}
	}

	if err := p.parseRelationships(); err != nil {
		return nil, err
	}
	if err := p.parseSlideList(); err != nil {
		return nil, err
	}

	return p, nil
}

// part returns the live arena entry with the given name, or nil.
func (p *Package) part(name string) *part {
	i, ok := p.index[name]
	if !ok || p.parts[i].removed {
		return nil
	}
	return p.parts[i]
}

// newPartDecoder returns an XML decoder for one part's bytes. Typed parses
// go through a charset-aware reader so parts with unusual declared
// encodings still decode.
func newPartDecoder(data []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// parseRelationships parses the presentation relationship table.
func (p *Package) parseRelationships() error {
	pt := p.part(presentationRelsPart)
	if err := newPartDecoder(pt.data).Decode(&p.rels); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrMalformedPackage, presentationRelsPart, err)
	}
	return nil
}

// relTarget resolves a relationship ID to its target part name, relative
// to the presentation part. Returns "" when the ID is unknown.
func (p *Package) relTarget(relID string) string {
	for i := range p.rels.Relationship {
		if p.rels.Relationship[i].ID == relID {
			return resolveTarget("ppt", p.rels.Relationship[i].Target)
		}
	}
	return ""
}

// resolveTarget resolves a relationship target against the directory of the
// part that declared it. Targets may be relative ("slides/slide1.xml",
// "../notesSlides/notesSlide1.xml") or package-absolute ("/ppt/...").
func resolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(baseDir, target)
}

// parseSlideList parses the ordered slide list from presentation.xml and
// resolves every entry through the relationship table.
func (p *Package) parseSlideList() error {
	var pres presentationXML
	if err := newPartDecoder(p.part(presentationPart).data).Decode(&pres); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrMalformedPackage, presentationPart, err)
	}
	if pres.SlideIdList == nil {
		return fmt.Errorf("%w: presentation has no slide list", ErrMalformedPackage)
	}

	for _, sld := range pres.SlideIdList.SlideId {
		partName := p.relTarget(sld.RID)
		if partName == "" || p.part(partName) == nil {
			return fmt.Errorf("%w: slide %s references unresolvable relationship %q", ErrMalformedPackage, sld.ID, sld.RID)
		}

		ref := &slideRef{id: sld.ID, relID: sld.RID, partName: partName}
		ref.relsName, ref.notesName = p.slideNotes(partName)
		p.slides = append(p.slides, ref)
	}

	return nil
}

// slideNotes locates a slide's own relationships part and, through it, the
// slide's notes part. Both are optional.
func (p *Package) slideNotes(slidePart string) (relsName, notesName string) {
	dir := path.Dir(slidePart)
	relsName = path.Join(dir, "_rels", path.Base(slidePart)+".rels")

	pt := p.part(relsName)
	if pt == nil {
		return "", ""
	}

	var rels relationshipsXML
	if err := newPartDecoder(pt.data).Decode(&rels); err != nil {
		return relsName, ""
	}

	for _, rel := range rels.Relationship {
		if strings.HasSuffix(rel.Type, relTypeNotesSlide) {
			name := resolveTarget(dir, rel.Target)
			if p.part(name) != nil {
				return relsName, name
			}
		}
	}
	return relsName, ""
}

// SlideCount returns the number of slides currently in the slide list.
func (p *Package) SlideCount() int {
	return len(p.slides)
}

// checkInvariants verifies that every slide-list entry still resolves: its
// part is live in the arena and its relationship entry exists. Serializing
// a package that fails this check would silently corrupt output, so the
// check runs before every serialization.
func (p *Package) checkInvariants() error {
	for i, ref := range p.slides {
		if p.part(ref.partName) == nil {
			return fmt.Errorf("%w: slide %d part %s is gone", ErrInvariant, i, ref.partName)
		}
		found := false
		for j := range p.rels.Relationship {
			if p.rels.Relationship[j].ID == ref.relID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: slide %d relationship %s is gone", ErrInvariant, i, ref.relID)
		}
	}
	return nil
}

// Bytes serializes the package back into a PPTX byte stream. Parts are
// written in their original order; removed parts are skipped.
func (p *Package) Bytes() ([]byte, error) {
	if err := p.checkInvariants(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, pt := range p.parts {
		if pt.removed {
			continue
		}
		w, err := zw.Create(pt.name)
		if err != nil {
			return nil, fmt.Errorf("pptx: writing %s: %w", pt.name, err)
		}
		if _, err := w.Write(pt.data); err != nil {
			return nil, fmt.Errorf("pptx: writing %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pptx: closing archive: %w", err)
	}

	return buf.Bytes(), nil
}
