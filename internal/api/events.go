package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DrawEvent is the payload of one "draw" server-sent event
type DrawEvent struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// handleDrawEvents streams the draws of a stream as server-sent events,
// one "draw" per value followed by "done". A client that disconnects stops
// the stream.
func (s *Server) handleDrawEvents(c *gin.Context) {
	q, err := s.parseDrawQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	r, resp, err := s.open(c, q)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	for i := 0; i < q.n; i++ {
		select {
		case <-ctx.Done():
			s.logger.Debug("client left %s after %d draws", resp.Name, i)
			return
		default:
		}

		v, err := r.NextDouble()
		if err != nil {
			c.SSEvent("error", ErrorResponse{Error: err.Error(), Code: codeFor(statusFor(err))})
			c.Writer.Flush()
			return
		}
		c.SSEvent("draw", DrawEvent{Index: i, Value: v})
		c.Writer.Flush()
	}
	c.SSEvent("done", resp)
	c.Writer.Flush()
}
