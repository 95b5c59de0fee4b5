// Package classify contains the pure document identification utilities:
// form-type and financial-type checks, client name extraction, and
// subfolder targeting. All functions are deterministic and total - no
// I/O, no mutation of inputs, any single signal is sufficient (logical
// OR, no weighting).
package classify

import (
	"strings"

	"caseflow/internal/config"
	"caseflow/internal/domain/models/casefile"
)

// Classifier evaluates documents against the loaded keyword rules.
type Classifier struct {
	rules *Rules
}

// NewClassifier creates a classifier over the given rules. Use LoadRules
// for the embedded defaults.
func NewClassifier(rules *Rules) *Classifier {
	return &Classifier{rules: rules}
}

// IsForm47 reports whether the document is a Form 47 (consumer proposal).
// True when document metadata carries the form-47 sentinel, the title
// contains a form-47 keyword, or the analysis extraction says so.
func (c *Classifier) IsForm47(doc *casefile.Document, analysis *casefile.AnalysisContent) bool {
	return c.isForm(casefile.FormTypeForm47, doc, analysis)
}

// IsForm76 reports whether the document is a Form 76 (statement of
// affairs). Same signal rules as IsForm47.
func (c *Classifier) IsForm76(doc *casefile.Document, analysis *casefile.AnalysisContent) bool {
	return c.isForm(casefile.FormTypeForm76, doc, analysis)
}

func (c *Classifier) isForm(formType string, doc *casefile.Document, analysis *casefile.AnalysisContent) bool {
	if doc.MetadataString("formType") == formType {
		return true
	}

	title := strings.ToLower(doc.Title)
	for _, keyword := range c.rules.Forms[formType].TitleKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}

	return analysis != nil && analysis.ExtractedInfo.FormType == formType
}

// IsFinancialDocument reports whether the title matches any financial
// keyword. Plain substring match: no extension validation, no word
// boundaries ("statement of intent.docx" matches).
func (c *Classifier) IsFinancialDocument(doc *casefile.Document) bool {
	title := strings.ToLower(doc.Title)
	for _, keyword := range c.rules.FinancialTitleKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

// ExtractClientName resolves a client name for the document. Precedence:
// analysis clientName, then document metadata, then the Form-47-specific
// consumerDebtorName from the analysis. A name exceeding the client name
// bound is extraction garbage and its signal is skipped. Empty string
// means no client could be resolved.
func (c *Classifier) ExtractClientName(doc *casefile.Document, analysis *casefile.AnalysisContent) string {
	if analysis != nil {
		if name := usableClientName(analysis.ExtractedInfo.ClientName); name != "" {
			return name
		}
	}

	if name := usableClientName(doc.MetadataString("client_name")); name != "" {
		return name
	}
	if name := usableClientName(doc.MetadataString("clientName")); name != "" {
		return name
	}

	if analysis != nil {
		return usableClientName(analysis.ExtractedInfo.ConsumerDebtorName)
	}
	return ""
}

func usableClientName(name string) string {
	if len(name) > config.MaxClientNameLength {
		return ""
	}
	return name
}

// GenericCategory names the document category when no client folder can
// be targeted: "Forms", "Financial Documents", or "General Documents".
func (c *Classifier) GenericCategory(doc *casefile.Document, analysis *casefile.AnalysisContent) string {
	switch {
	case c.IsForm47(doc, analysis) || c.IsForm76(doc, analysis):
		return "Forms"
	case c.IsFinancialDocument(doc):
		return "Financial Documents"
	default:
		return "General Documents"
	}
}
