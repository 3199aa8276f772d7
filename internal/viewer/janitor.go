package viewer

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const sessionMaxIdle = time.Hour

// Janitor sweeps idle viewer sessions on a schedule.
type Janitor struct {
	service *Service
}

func NewJanitor(service *Service) *Janitor {
	return &Janitor{service: service}
}

// Start initializes the sweep schedule
func (j *Janitor) Start() {
	c := cron.New()

	_, err := c.AddFunc("@every 15m", func() {
		if n := j.service.Sweep(sessionMaxIdle); n > 0 {
			log.Printf("viewer janitor removed %d idle sessions", n)
		}
	})
	if err != nil {
		log.Printf("Failed to create janitor job: %v", err)
		return
	}

	log.Println("Viewer janitor started (sweeping every 15m)")
	c.Start()
}
