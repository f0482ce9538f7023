package ports

import "urlinfo/internal/domain"

// ScreenJob is one target handed to the batch workers. Index keeps results in
// input order.
type ScreenJob struct {
	Index  int
	Target string
}

// ScreenResult pairs a job with its verdict, or the error Screen returned.
type ScreenResult struct {
	ScreenJob
	Verdict domain.Verdict
	Err     error
}
