package jobs

import (
	"log"

	"reviewroute/internal/repository"

	"github.com/robfig/cron/v3"
)

// StartReconciler schedules the nightly aggregate recompute. Submissions
// update avg_rating/reviews with a plain read-then-write, so two concurrent
// submissions to the same business can lose an update; this job rebuilds the
// aggregates from the feedback rows themselves.
func StartReconciler(spec string, businessRepo *repository.BusinessRepository, feedbackRepo *repository.FeedbackRepository) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		reconcileAggregates(businessRepo, feedbackRepo)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[reconcile] scheduled aggregate recompute (%s)", spec)
	return c, nil
}

func reconcileAggregates(businessRepo *repository.BusinessRepository, feedbackRepo *repository.FeedbackRepository) {
	ids, err := businessRepo.ListIDs()
	if err != nil {
		log.Printf("[reconcile] list businesses failed: %v", err)
		return
	}
	fixed := 0
	for _, id := range ids {
		b, err := businessRepo.GetByID(id)
		if err != nil {
			log.Printf("[reconcile] load business %s failed: %v", id, err)
			continue
		}
		avg, count, err := feedbackRepo.AggregateLowRatings(id, b.RedirectThreshold())
		if err != nil {
			log.Printf("[reconcile] aggregate business %s failed: %v", id, err)
			continue
		}
		if b.Reviews == count && b.AvgRating == avg {
			continue
		}
		if err := businessRepo.UpdateAggregates(id, avg, count); err != nil {
			log.Printf("[reconcile] update business %s failed: %v", id, err)
			continue
		}
		fixed++
	}
	if fixed > 0 {
		log.Printf("[reconcile] repaired aggregates for %d businesses", fixed)
	}
}
