package server

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/tsawler/deckgen"
)

// Output formats accepted in a render request.
const (
	FormatPPTX = "pptx"
	FormatPDF  = "pdf"
)

// PricingOverrides carries the caller-supplied fee schedule. Flat fees are
// whole euro amounts; the percentage fees arrive preformatted (e.g. "9%").
type PricingOverrides struct {
	SetupFee  int    `json:"SETUP_FEE"`
	ShortFee  int    `json:"SHORT_FEE"`
	FullFee   int    `json:"FULL_FEE"`
	GrantFee  string `json:"GRANT_FEE"`
	EquityFee string `json:"EQUITY_FEE"`
}

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	CompanyName  string           `json:"company_name"`
	ContactName  string           `json:"contact_name"`
	ContactEmail string           `json:"contact_email"`
	Program      string           `json:"program"`
	ProposalDate string           `json:"proposal_date"` // ISO date, YYYY-MM-DD
	SlideToggles map[string]bool  `json:"slide_toggles"`
	Pricing      PricingOverrides `json:"pricing_overrides"`
	Format       string           `json:"format,omitempty"` // "pptx" (default) or "pdf"
}

// Validate checks field presence and formats. It returns the first problem
// found, phrased for the API client.
func (r *RenderRequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" {
		return fmt.Errorf("company_name is required")
	}
	if strings.TrimSpace(r.ContactName) == "" {
		return fmt.Errorf("contact_name is required")
	}
	if _, err := mail.ParseAddress(r.ContactEmail); err != nil {
		return fmt.Errorf("contact_email is not a valid email address")
	}
	if strings.TrimSpace(r.Program) == "" {
		return fmt.Errorf("program is required")
	}
	if _, err := r.date(); err != nil {
		return fmt.Errorf("proposal_date must be an ISO date (YYYY-MM-DD)")
	}
	switch r.Format {
	case "", FormatPPTX, FormatPDF:
	default:
		return fmt.Errorf("format must be %q or %q", FormatPPTX, FormatPDF)
	}
	return nil
}

func (r *RenderRequest) date() (time.Time, error) {
	return time.Parse("2006-01-02", r.ProposalDate)
}

// Replacements builds the placeholder map for the core generator. All
// numeric and date values are formatted here; the core treats replacement
// values as opaque strings. Must be called after Validate.
func (r *RenderRequest) Replacements() *deckgen.Replacements {
	date, _ := r.date()
	return deckgen.NewReplacements().
		Set("{COMPANY_NAME}", r.CompanyName).
		Set("{SETUP_FEE}", formatEuro(r.Pricing.SetupFee)).
		Set("{SHORT_FEE}", formatEuro(r.Pricing.ShortFee)).
		Set("{FULL_FEE}", formatEuro(r.Pricing.FullFee)).
		Set("{GRANT_FEE}", r.Pricing.GrantFee).
		Set("{EQUITY_FEE}", r.Pricing.EquityFee).
		Set("{CONTACT_NAME}", r.ContactName).
		Set("{CONTACT_EMAIL}", r.ContactEmail).
		Set("{DATE}", date.Format("02/01/2006")).
		Set("{PROGRAM}", r.Program)
}

// Filename returns a download filename derived from the company name, with
// anything outside letters, digits, spaces, hyphens, and underscores
// replaced by underscores.
func (r *RenderRequest) Filename(ext string) string {
	safe := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		case c == ' ', c == '_', c == '-':
			return c
		}
		return '_'
	}, r.CompanyName)
	return "Proposal_" + safe + "." + ext
}
