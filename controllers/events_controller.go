package controllers

import (
	"io"

	"havana-backend/services"

	"github.com/gin-gonic/gin"
)

// EventsController streams order notifications to connected clients over
// server-sent events.
type EventsController struct {
	Notifier *services.Notifier
}

func NewEventsController(notifier *services.Notifier) *EventsController {
	return &EventsController{Notifier: notifier}
}

// GET /api/events
func (ctl *EventsController) Stream(c *gin.Context) {
	events, cancel := ctl.Notifier.Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
