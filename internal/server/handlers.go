package server

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ezoic/crispdm/crispdm"
	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/pkg/errors"
	"github.com/ezoic/crispdm/pkg/log"
	"github.com/ezoic/crispdm/plotting"
)

// paramsQuery is the query string shared by the page, the API and the
// plots. Absent fields keep the session's current value.
type paramsQuery struct {
	A         *float64 `form:"a"`
	B         *float64 `form:"b"`
	Noise     *float64 `form:"noise"`
	N         *int     `form:"n"`
	FixedSeed *bool    `form:"fixed_seed"`
	PredictX  *float64 `form:"predict_x"`
	Series    bool     `form:"series"`
}

type predictQuery struct {
	X *float64 `form:"x" binding:"required"`
}

// queryKeys are carried from the page to /regenerate and back.
var queryKeys = []string{"a", "b", "noise", "n", "fixed_seed", "predict_x"}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps an error to an HTTP status and error code.
func classify(err error) (int, string) {
	var valErr *errors.ValueError
	switch {
	case errors.Is(err, errors.ErrInvalidParameter):
		return http.StatusBadRequest, log.ErrorInvalidParameter
	case errors.Is(err, errors.ErrInsufficientData):
		return http.StatusBadRequest, log.ErrorInsufficientData
	case errors.As(err, &valErr):
		return http.StatusBadRequest, log.ErrorInvalidRequest
	default:
		return http.StatusInternalServerError, log.ErrorInternal
	}
}

func (s *Server) fail(c *gin.Context, sess *Session, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.LogError(err, "Request failed")
	} else {
		s.logger.Info("Request rejected",
			log.SessionIDKey, sess.ID,
			log.ErrorCodeKey, code,
			"error", err.Error(),
		)
	}
	c.JSON(status, errorResponse{Error: err.Error(), Code: code})
}

// session returns the caller's session, issuing a cookie for a new one.
func (s *Server) session(c *gin.Context) *Session {
	id, _ := c.Cookie(SessionCookie)
	sess, created := s.store.Get(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID, int(SessionTTL.Seconds()), "/", "", false, true)
	}
	return sess
}

// bindParams merges the query over the session's last parameters (or the
// configured defaults) and applies a fixed_seed toggle. The caller holds
// sess.mu.
func (s *Server) bindParams(c *gin.Context, sess *Session) (datasets.Params, paramsQuery, error) {
	var q paramsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return datasets.Params{}, q, errors.NewValueError("query", err.Error())
	}

	p := s.cfg.Defaults.Params
	if sess.state.LastParams != nil {
		p = *sess.state.LastParams
	}
	if q.A != nil {
		p.A = *q.A
	}
	if q.B != nil {
		p.B = *q.B
	}
	if q.Noise != nil {
		p.NoiseSigma = *q.Noise
	}
	if q.N != nil {
		p.N = *q.N
	}
	if q.FixedSeed != nil {
		sess.state.SetFixedSeed(*q.FixedSeed)
	}
	return p, q, nil
}

// analyze binds the request and returns the session's report for it.
func (s *Server) analyze(c *gin.Context, sess *Session) (*crispdm.Report, datasets.Params, paramsQuery, error) {
	p, q, err := s.bindParams(c, sess)
	if err != nil {
		return nil, p, q, err
	}
	r, err := sess.analysis(p, s.reportOptions(predictX(q)))
	return r, p, q, err
}

func predictX(q paramsQuery) float64 {
	if q.PredictX == nil || math.IsNaN(*q.PredictX) || math.IsInf(*q.PredictX, 0) {
		return crispdm.DefaultPredictionX
	}
	return *q.PredictX
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := s.session(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	r, p, q, err := s.analyze(c, sess)

	view := pageData{
		Params:      p,
		Slope:       datasets.SlopeRange,
		Intercept:   datasets.InterceptRange,
		Noise:       datasets.NoiseRange,
		Samples:     datasets.SamplesRange,
		FixedSeed:   sess.state.UseFixedSeed,
		SeedCounter: sess.state.SeedCounter,
		PredictX:    predictX(q),
		Query:       template.URL(pageQuery(p, sess.state.UseFixedSeed, predictX(q))),
	}
	if err != nil {
		status, code := classify(err)
		view.Error = err.Error()
		view.ErrorCode = code
		c.HTML(status, "index.html.tmpl", view)
		return
	}

	view.Report = r
	view.Prediction = r.Predict(view.PredictX)
	c.HTML(http.StatusOK, "index.html.tmpl", view)
}

func pageQuery(p datasets.Params, fixed bool, x float64) string {
	q := url.Values{}
	q.Set("a", strconv.FormatFloat(p.A, 'g', -1, 64))
	q.Set("b", strconv.FormatFloat(p.B, 'g', -1, 64))
	q.Set("noise", strconv.FormatFloat(p.NoiseSigma, 'g', -1, 64))
	q.Set("n", strconv.Itoa(p.N))
	q.Set("fixed_seed", strconv.FormatBool(fixed))
	q.Set("predict_x", strconv.FormatFloat(x, 'g', -1, 64))
	return q.Encode()
}

func (s *Server) handleRegenerate(c *gin.Context) {
	sess := s.session(c)
	sess.mu.Lock()
	sess.state.RequestRegenerate()
	counter := sess.state.SeedCounter
	sess.mu.Unlock()

	regenerateRequestTotal.Inc()
	s.logger.Info("Regenerate requested",
		log.SessionIDKey, sess.ID,
		log.SeedCounterKey, counter,
	)

	q := url.Values{}
	for _, k := range queryKeys {
		if v := c.PostForm(k); v != "" {
			q.Set(k, v)
		} else if v := c.Query(k); v != "" {
			q.Set(k, v)
		}
	}
	location := "/"
	if len(q) > 0 {
		location += "?" + q.Encode()
	}
	c.Redirect(http.StatusSeeOther, location)
}

func (s *Server) handleAnalysis(c *gin.Context) {
	sess := s.session(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	r, _, q, err := s.analyze(c, sess)
	if err != nil {
		s.fail(c, sess, err)
		return
	}

	out := *r
	if !q.Series {
		ev := out.Evaluation
		ev.Diagnostics = nil
		out.Evaluation = ev
	}
	out.Deployment.Prediction = r.Predict(predictX(q))

	c.JSON(http.StatusOK, gin.H{
		"session": gin.H{
			"seed_counter": sess.state.SeedCounter,
			"fixed_seed":   sess.state.UseFixedSeed,
		},
		"report": out,
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	sess := s.session(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	var pq predictQuery
	if err := c.ShouldBindQuery(&pq); err != nil {
		s.fail(c, sess, errors.NewValueError("predict", "query parameter x is required and must be a number"))
		return
	}
	if math.IsNaN(*pq.X) || math.IsInf(*pq.X, 0) {
		s.fail(c, sess, errors.NewValueError("predict", fmt.Sprintf("x must be finite, got %v", *pq.X)))
		return
	}

	r, _, _, err := s.analyze(c, sess)
	if err != nil {
		s.fail(c, sess, err)
		return
	}
	c.JSON(http.StatusOK, r.Predict(*pq.X))
}

func (s *Server) handleModel(c *gin.Context) {
	sess := s.session(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	r, _, _, err := s.analyze(c, sess)
	if err != nil {
		s.fail(c, sess, err)
		return
	}

	var buf bytes.Buffer
	if err := r.Result().Model.ExportToSKLearnWriter(&buf); err != nil {
		s.fail(c, sess, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

func (s *Server) handleDistributionPlot(c *gin.Context) {
	s.servePlot(c, plotting.DistributionSVG)
}

func (s *Server) handleDiagnosticsPlot(c *gin.Context) {
	s.servePlot(c, plotting.DiagnosticsSVG)
}

func (s *Server) servePlot(c *gin.Context, draw func(io.Writer, *crispdm.Report) error) {
	sess := s.session(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	r, _, _, err := s.analyze(c, sess)
	if err != nil {
		s.fail(c, sess, err)
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, r); err != nil {
		s.fail(c, sess, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
