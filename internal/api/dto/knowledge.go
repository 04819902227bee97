package dto

type KnowledgeAnswerResponse struct {
	Answer string `json:"answer"`
}

// LoadDocumentsRequest adds documents to the knowledge base. Emptying the
// collection is not offered over HTTP.
type LoadDocumentsRequest struct {
	URLs []string `json:"urls"`
}

type LoadDocumentsResponse struct {
	Documents int `json:"documents"`
	Skipped   int `json:"skipped"`
	Chunks    int `json:"chunks"`
}
