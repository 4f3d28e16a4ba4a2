package domain

import "context"

// Fetcher pulls candidates from one outside source.
// Implementations skip unusable listings silently and return an error only
// when the whole source is unreachable
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]Candidate, error)
}

// RunnerPort triggers a full ingestion pass
type RunnerPort interface {
	Run(ctx context.Context) (Result, error)
}
