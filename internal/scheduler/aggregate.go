package scheduler

import "github.com/timmy/ingestq/internal/domain"

// aggregate builds the read view of an ingestion. Each batch status is loaded once,
// so the overall status always agrees with the batches in the same view.
func aggregate(ing *Ingestion, batches []*Batch) *domain.IngestionStatus {
	view := &domain.IngestionStatus{
		IngestionID: ing.ID,
		Priority:    ing.Priority,
		CreatedAt:   ing.CreatedAt,
		Batches:     make([]domain.BatchStatus, 0, len(batches)),
	}

	statuses := make([]domain.Status, 0, len(batches))
	for _, b := range batches {
		st := b.Status()
		statuses = append(statuses, st)
		view.Batches = append(view.Batches, domain.BatchStatus{
			BatchID: b.ID,
			IDs:     append([]int(nil), b.IDs...),
			Status:  st,
		})
	}
	view.Status = foldStatus(statuses)
	return view
}

// foldStatus combines batch statuses into an ingestion status.
// An ingestion without batches is completed: every one of its zero batches is done.
func foldStatus(statuses []domain.Status) domain.Status {
	allPending, allCompleted := true, true
	for _, st := range statuses {
		if st != domain.StatusYetToStart {
			allPending = false
		}
		if st != domain.StatusCompleted {
			allCompleted = false
		}
	}

	switch {
	case allCompleted:
		return domain.StatusCompleted
	case allPending:
		return domain.StatusYetToStart
	default:
		return domain.StatusTriggered
	}
}
