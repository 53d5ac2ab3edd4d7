// Package prompt builds the context block and the final prompt sent to the
// generation model. Everything here is a pure string transformation: given
// the same entries and question the output is byte-identical, and missing
// entry fields render as empty strings rather than errors.
package prompt

import (
	"fmt"
	"strings"

	"github.com/jurisph/legal-qa-backend/internal/qa/domain"
)

// SystemInstruction is the fixed system-role message for every generation call.
const SystemInstruction = "You are a helpful legal assistant."

// BuildContextBlock renders the retrieved entries into one text block, in
// retrieval order, one section per entry separated by a blank line.
func BuildContextBlock(entries []domain.KnowledgeEntry) string {
	sections := make([]string, len(entries))
	for i, e := range entries {
		sections[i] = fmt.Sprintf(
			"Source %d (%s): %s\nCitation: %s\nTags: %s\nSummary: %s",
			i+1,
			e.Type,
			e.Title,
			e.CanonicalCitation,
			strings.Join(e.Tags, ", "),
			e.Summary,
		)
	}
	return strings.Join(sections, "\n\n")
}

// Build combines the grounding instruction, the context block and the
// question into the user-role prompt, in that fixed order.
func Build(question string, entries []domain.KnowledgeEntry) string {
	var sb strings.Builder
	sb.WriteString("Answer the question using ONLY the provided context. ")
	sb.WriteString("If the context is insufficient to answer, say so.\n\n")
	sb.WriteString("Context:\n")
	sb.WriteString(BuildContextBlock(entries))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
