// Package http provides the on-demand ingestion trigger endpoint
package http

import (
	stdhttp "net/http"

	"blockparty/internal/modkit/httpkit"
	ingestdom "blockparty/internal/services/ingest/domain"
)

// Register mounts the collect endpoint on the given router
func Register(r httpkit.Router, runner ingestdom.RunnerPort) {
	h := &handlers{runner: runner}
	httpkit.Post(r, "/collect", h.collect)
}

type handlers struct{ runner ingestdom.RunnerPort }

// CollectResponse reports the outcome of a triggered run
type CollectResponse struct {
	Message string `json:"message"`
	Saved   int    `json:"saved"`
	Total   int    `json:"total"`
}

func (h *handlers) collect(r *stdhttp.Request) (any, error) {
	res, err := h.runner.Run(r.Context())
	if err != nil {
		return nil, err
	}
	return CollectResponse{
		Message: "external events collected",
		Saved:   res.Saved,
		Total:   res.Total,
	}, nil
}
