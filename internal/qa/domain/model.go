package domain

import "encoding/json"

// KnowledgeEntry is one retrievable unit from the knowledge base as returned
// by the search service: a statute section, a decided case, and so on.
// Entries are immutable per-request snapshots; the pipeline never mutates or
// persists them.
type KnowledgeEntry struct {
	Type              string     `json:"type"`
	Title             string     `json:"title"`
	CanonicalCitation string     `json:"canonical_citation"`
	Tags              StringList `json:"tags"`
	Summary           string     `json:"summary"`
}

// StringList decodes a JSON array of strings but tolerates malformed input:
// anything that is not an array of strings decodes to an empty list instead
// of failing the whole retrieval response.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		*s = nil
		return nil
	}
	*s = items
	return nil
}

// AnswerResult is the final pipeline output: the generated answer and the
// retrieved entries, in retrieval order, that grounded it. Answer may be
// empty when the model produced no content.
type AnswerResult struct {
	Answer  string           `json:"answer"`
	Sources []KnowledgeEntry `json:"sources"`
}

// QueryRecord is one row of the optional question/answer audit log.
type QueryRecord struct {
	ID          string
	Question    string
	Answer      string
	SourceCount int
	LatencyMS   int64
}
