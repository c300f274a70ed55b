package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"guesthouse-backend/services"
)

// NoShowSweeper moves Pending/Confirmed reservations whose check-in date has
// passed to NoShow so they stop blocking the room.
type NoShowSweeper struct {
	Reservations *services.ReservationService
}

func (j *NoShowSweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	marked, err := j.Reservations.MarkNoShows(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("no-show sweep failed: %v", err)
		return
	}
	if marked > 0 {
		log.Printf("no-show sweep: marked %d reservation(s)", marked)
	}
}

// StartScheduler wires the nightly jobs and starts the cron loop. The
// returned cron should be stopped on shutdown.
func StartScheduler(reservations *services.ReservationService) (*cron.Cron, error) {
	c := cron.New()
	sweeper := &NoShowSweeper{Reservations: reservations}
	if _, err := c.AddJob("0 3 * * *", sweeper); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
