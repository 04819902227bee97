package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/api/dto"
	"github.com/arpankumarde/neevtrace/internal/domain"
)

const maxDocumentsPerRequest = 10

type Knowledge interface {
	AskKnowledge(ctx context.Context, query string) (string, error)
	LoadKnowledge(ctx context.Context, urls []string) (domain.IngestReport, error)
}

type KnowledgeHandler struct {
	Svc Knowledge
	// AllowedHosts limits which hosts documents may be fetched from. When
	// empty any public host is accepted.
	AllowedHosts []string
}

func (h *KnowledgeHandler) Query(w http.ResponseWriter, r *http.Request) {
	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	answer, err := h.Svc.AskKnowledge(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, "knowledge-query", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.KnowledgeAnswerResponse{Answer: answer})
}

func (h *KnowledgeHandler) LoadDocuments(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadDocumentsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, r, http.StatusBadRequest, "urls is required")
		return
	}
	if len(req.URLs) > maxDocumentsPerRequest {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d urls per request", maxDocumentsPerRequest))
		return
	}
	for i, u := range req.URLs {
		req.URLs[i] = strings.TrimSpace(u)
		if err := h.checkURL(req.URLs[i]); err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("urls[%d]: %v", i, err))
			return
		}
	}

	rep, err := h.Svc.LoadKnowledge(r.Context(), req.URLs)
	if err != nil {
		writeServiceError(w, r, "knowledge-documents", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.LoadDocumentsResponse{
		Documents: rep.Documents,
		Skipped:   rep.Skipped,
		Chunks:    rep.Chunks,
	})
}

// checkURL accepts http(s) URLs on an allowed host. Loopback, private and
// link-local addresses are refused.
func (h *KnowledgeHandler) checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return fmt.Errorf("not an http(s) url")
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("host %q is not allowed", host)
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
			ip.IsLinkLocalMulticast() || ip.IsUnspecified() || ip.IsMulticast() {
			return fmt.Errorf("host %q is not allowed", host)
		}
	}
	if len(h.AllowedHosts) > 0 && !slices.Contains(h.AllowedHosts, host) {
		return fmt.Errorf("host %q is not allowed", host)
	}
	return nil
}
