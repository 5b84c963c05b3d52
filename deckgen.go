// Package deckgen fills a PPTX template with caller-supplied values and
// removes slides selected by control tags in the slide notes, producing a
// repackaged presentation.
//
// Basic usage:
//
//	repl := deckgen.NewReplacements().
//	    Set("{COMPANY_NAME}", "Acme").
//	    Set("{DATE}", "30/09/2025")
//	toggles := map[string]bool{"about_x": false}
//
//	out, err := deckgen.Generate(template, repl, toggles)
//	if err != nil {
//	    // handle error
//	}
//
// Slides are selected by tags of the form [[tag:NAME]] embedded in the
// slide's speaker notes. A slide is dropped when any of its tags maps to
// false in the toggle map; tags absent from the map default to include.
// For lower-level access to the package model, the pptx package is also
// available.
package deckgen

import "github.com/tsawler/deckgen/pptx"

// Generate produces a presentation from a PPTX template held in memory.
//
// The pipeline runs exactly once per call: load the package; collect the
// tags of every slide's notes and evaluate the toggles against the original
// slide order; remove the excluded slides highest-index-first; substitute
// replacement tokens in the body and notes of every surviving slide;
// serialize. It either returns the complete output bytes or an error with
// no partial output. Errors from an unreadable template wrap
// pptx.ErrMalformedPackage.
//
// Generate is pure given its inputs: no filesystem or network access, and
// deterministic because Replacements applies tokens in insertion order.
func Generate(template []byte, repl *Replacements, toggles map[string]bool) ([]byte, error) {
	pkg, err := pptx.Open(template)
	if err != nil {
		return nil, err
	}

	// Selection runs against the pre-removal snapshot; indices are
	// collected once and never recomputed mid-removal.
	var remove []int
	for i := 0; i < pkg.SlideCount(); i++ {
		if ShouldRemove(ExtractTags(pkg.NotesText(i)), toggles) {
			remove = append(remove, i)
		}
	}

	if err := pkg.RemoveSlides(remove); err != nil {
		return nil, err
	}

	for i := 0; i < pkg.SlideCount(); i++ {
		if err := pkg.SubstituteText(i, repl.Apply); err != nil {
			return nil, err
		}
	}

	return pkg.Bytes()
}
