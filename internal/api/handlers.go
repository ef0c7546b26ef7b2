package api

import (
	"net/http"
	"strconv"

	"seedrand/adapters/random"
	"seedrand/app"
	"seedrand/domain/core"
	"seedrand/domain/run"
	"seedrand/internal/errors"
	"seedrand/internal/sampletable"
	"seedrand/ports"

	"github.com/gin-gonic/gin"
)

var contentTypes = map[string]string{
	sampletable.FormatCSV:  "text/csv; charset=utf-8",
	sampletable.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DrawsResponse carries the first draws of a stream
type DrawsResponse struct {
	Engine string `json:"engine"`
	Seed   int32  `json:"seed"`
	// StreamSeed differs from Seed when the stream was derived from
	// run/stage/key names.
	StreamSeed int32     `json:"stream_seed"`
	Name       string    `json:"name"`
	Draws      []float64 `json:"draws"`
}

// IssuedResponse is one entry of the issued-stream ledger
type IssuedResponse struct {
	Engine string `json:"engine"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Seed   int32  `json:"seed"`
}

// ValidateRequest asks whether seed still produces expected
type ValidateRequest struct {
	Name     string    `json:"name" binding:"required"`
	Seed     int32     `json:"seed"`
	Engine   string    `json:"engine"`
	Expected []float64 `json:"expected" binding:"required"`
}

type drawQuery struct {
	seed   int32
	engine random.Engine
	n      int
	runID  string
	stage  string
	key    string
}

func (q drawQuery) derived() bool {
	return q.runID != "" || q.stage != "" || q.key != ""
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "code_version": app.CodeVersion})
}

func (s *Server) handleEngines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"engines": random.Engines()})
}

func (s *Server) handleTable(c *gin.Context) {
	res, format, err := s.runTable(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := sampletable.Encode(format, res.Table)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("X-Run-Id", res.Manifest.RunID.String())
	c.Header("X-Fingerprint", res.Manifest.Fingerprint.Hash.String())
	c.Header("X-Content-Hash", res.Manifest.ContentHash.String())
	c.Data(http.StatusOK, contentTypes[format], data)
}

func (s *Server) runTable(c *gin.Context) (*app.SampleRun, string, error) {
	seed, err := parseSeed(c)
	if err != nil {
		return nil, "", err
	}
	engine, err := parseEngine(c)
	if err != nil {
		return nil, "", err
	}
	rows, err := s.parseCount(c, "rows", 256)
	if err != nil {
		return nil, "", err
	}
	workers, err := s.parseCount(c, "workers", 1)
	if err != nil {
		return nil, "", err
	}
	format := c.DefaultQuery("format", sampletable.FormatCSV)
	if _, ok := contentTypes[format]; !ok {
		return nil, "", errors.InvalidInput("unknown format " + strconv.Quote(format))
	}

	res, err := s.samples.Run(c.Request.Context(), app.SampleRequest{
		Seed:       seed,
		SeedSource: run.SeedFromRequest,
		Engine:     engine.String(),
		Rows:       rows,
		Workers:    workers,
		Format:     format,
	})
	return res, format, err
}

func (s *Server) handleVerifyTable(c *gin.Context) {
	var m run.Manifest
	if err := c.ShouldBindJSON(&m); err != nil {
		s.fail(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	if m.Rows > s.maxRows {
		s.fail(c, errors.InvalidInput("manifest rows exceed the server limit"))
		return
	}
	if err := s.samples.Verify(c.Request.Context(), &m); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": m.RunID, "reproduced": true})
}

func (s *Server) handleIssued(c *gin.Context) {
	out := make([]IssuedResponse, 0)
	for _, e := range random.Engines() {
		for _, issued := range s.streams[e].Issued() {
			out = append(out, IssuedResponse{Engine: e.String(), ID: issued.ID.String(), Name: issued.Name, Seed: issued.Seed})
		}
	}
	c.JSON(http.StatusOK, gin.H{"streams": out})
}

func (s *Server) handleDraws(c *gin.Context) {
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

	resp.Draws = make([]float64, q.n)
	for i := range resp.Draws {
		if resp.Draws[i], err = r.NextDouble(); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleValidate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	engine, err := random.ParseEngine(req.Engine)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(req.Expected) > s.maxRows {
		s.fail(c, errors.InvalidInput("too many expected draws"))
		return
	}

	if err := s.streams[engine].ValidateSeed(c.Request.Context(), req.Name, req.Seed, req.Expected); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// open hands out the stream a draw query names. Queries carrying run, stage
// or key get a stream with a seed derived from those names.
func (s *Server) open(c *gin.Context, q drawQuery) (ports.Random, DrawsResponse, error) {
	svc := s.streams[q.engine]
	resp := DrawsResponse{Engine: q.engine.String(), Seed: q.seed, StreamSeed: q.seed, Name: "draws"}

	if !q.derived() {
		r, err := svc.SeededStream(c.Request.Context(), resp.Name, q.seed)
		return r, resp, err
	}
	resp.StreamSeed = core.DeriveSeed(q.seed, q.runID, q.stage, q.key)
	resp.Name = app.StreamName(q.runID, q.stage, q.key)
	r, err := svc.Stream(c.Request.Context(), q.runID, q.stage, q.key, q.seed)
	return r, resp, err
}

func (s *Server) parseDrawQuery(c *gin.Context) (drawQuery, error) {
	seed, err := parseSeed(c)
	if err != nil {
		return drawQuery{}, err
	}
	engine, err := parseEngine(c)
	if err != nil {
		return drawQuery{}, err
	}
	n, err := s.parseCount(c, "n", 16)
	if err != nil {
		return drawQuery{}, err
	}
	return drawQuery{
		seed:   seed,
		engine: engine,
		n:      n,
		runID:  c.Query("run"),
		stage:  c.Query("stage"),
		key:    c.Query("key"),
	}, nil
}

func parseSeed(c *gin.Context) (int32, error) {
	value, ok := c.GetQuery("seed")
	if !ok {
		return 0, errors.InvalidInput("seed is required")
	}
	seed, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, errors.InvalidInput("seed must be an int32, got " + strconv.Quote(value))
	}
	return int32(seed), nil
}

func parseEngine(c *gin.Context) (random.Engine, error) {
	e, err := random.ParseEngine(c.Query("engine"))
	if err != nil {
		return "", errors.WithCode(errors.CodeInvalidInput, err)
	}
	return e, nil
}

func (s *Server) parseCount(c *gin.Context, name string, def int) (int, error) {
	value, ok := c.GetQuery(name)
	if !ok {
		return min(def, s.maxRows), nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || n > s.maxRows {
		return 0, errors.InvalidInput(name + " must be in [1, " + strconv.Itoa(s.maxRows) + "]")
	}
	return n, nil
}
