package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/analyzer/internal/config"
	"github.com/JonMunkholm/analyzer/internal/logging"
)

// ServiceConfig carries the tunables the service needs. Zero values select
// package defaults.
type ServiceConfig struct {
	MaxRows           int
	CategoricalLimit  int
	PreviewRows       int
	ChartHeight       int
	DefaultColorScale string
	MaxPointsWarning  float64

	SessionTTL  time.Duration
	MaxSessions int

	MaxConcurrentUploads int
	MaxWait              time.Duration
}

// ServiceConfigFrom extracts the service settings from the app config.
func ServiceConfigFrom(cfg *config.Config) ServiceConfig {
	return ServiceConfig{
		MaxRows:              cfg.Upload.MaxRows,
		CategoricalLimit:     cfg.Chart.CategoricalLimit,
		PreviewRows:          cfg.Chart.PreviewRows,
		ChartHeight:          cfg.Chart.Height,
		DefaultColorScale:    cfg.Chart.DefaultColorScale,
		MaxPointsWarning:     cfg.Chart.MaxPointsWarning,
		SessionTTL:           cfg.Session.TTL,
		MaxSessions:          cfg.Session.MaxSessions,
		MaxConcurrentUploads: cfg.Upload.MaxConcurrent,
		MaxWait:              cfg.Upload.MaxWaitTime,
	}
}

// Service is the entry point of the analyzer: it owns the session store
// and runs ingest, preview, chart and report requests against it.
type Service struct {
	cfg      ServiceConfig
	sessions *SessionStore
	limiter  *IngestLimiter
}

// NewService creates a new Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = DefaultPreviewRows
	}
	if cfg.ChartHeight <= 0 {
		cfg.ChartHeight = DefaultChartHeight
	}
	if cfg.DefaultColorScale == "" {
		cfg.DefaultColorScale = DefaultColorScale
	}
	if _, err := ColorScale(cfg.DefaultColorScale); err != nil {
		return nil, fmt.Errorf("default color scale: %w", err)
	}

	return &Service{
		cfg:      cfg,
		sessions: NewSessionStore(cfg.SessionTTL, cfg.MaxSessions),
		limiter:  NewIngestLimiter(cfg.MaxConcurrentUploads, cfg.MaxWait),
	}, nil
}

// Limiter exposes the ingest limiter for shutdown draining and health checks.
func (s *Service) Limiter() *IngestLimiter {
	return s.limiter
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}

// Upload parses a file and stores it as a session's table.
//
// With an empty or unknown sessionID a new session is created; otherwise the
// session's table is replaced. A failed parse leaves any existing session
// untouched.
func (s *Service) Upload(ctx context.Context, sessionID, name string, r io.Reader) (*Session, error) {
	logger := logging.WithFields(ctx, "file", name)

	if err := s.limiter.Acquire(ctx); err != nil {
		logger.Warn("ingest slot unavailable", "error", err)
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	cr := &countingReader{reader: r}
	t, err := Ingest(name, cr, IngestOptions{
		MaxRows:          s.cfg.MaxRows,
		CategoricalLimit: s.cfg.CategoricalLimit,
	})
	if err != nil {
		logger.Warn("ingest failed", "error", err)
		return nil, err
	}
	cls := Classify(t)

	var sess *Session
	if sessionID != "" {
		sess, err = s.sessions.Replace(sessionID, t, cls)
	}
	if sessionID == "" || err != nil {
		sess = s.sessions.Create(t, cls)
	}

	logger.Info("file ingested",
		"session_id", sess.ID,
		"bytes", cr.n,
		"rows", t.NumRows(),
		"columns", t.NumCols(),
		"numeric", len(cls.Numeric),
		"categorical", len(cls.Categorical),
		"dates", len(cls.Date),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sess, nil
}

// Session returns the live session for id.
func (s *Service) Session(id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return sess, nil
}

// Preview returns the first rows and the summary of a session's table.
func (s *Service) Preview(id string) (*Preview, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	return BuildPreview(sess.Table, sess.Classification, s.cfg.PreviewRows), nil
}

// ColumnSet lists a table's columns with their classification.
type ColumnSet struct {
	Columns        []ColumnInfo   `json:"columns"`
	Classification Classification `json:"classification"`
}

// Columns returns column metadata for a session.
func (s *Service) Columns(id string) (*ColumnSet, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	return &ColumnSet{
		Columns:        DescribeColumns(sess.Table),
		Classification: sess.Classification,
	}, nil
}

// Slider describes a bounded integer input.
type Slider struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// ChartOptions lists the inputs the UI should offer for one chart type.
// A nil choice list means the chart does not take that field.
type ChartOptions struct {
	Type     ChartType `json:"type"`
	Label    string    `json:"label"`
	Required []Field   `json:"required"`

	X     []string `json:"x"`
	Y     []string `json:"y,omitempty"`
	Z     []string `json:"z,omitempty"`
	Color []string `json:"color,omitempty"`
	Size  []string `json:"size,omitempty"`

	Aggregations []Aggregation `json:"aggregations,omitempty"`
	Bins         *Slider       `json:"bins,omitempty"`
	SizeMax      *Slider       `json:"sizeMax,omitempty"`

	ColorScales       []string `json:"colorScales"`
	DefaultColorScale string   `json:"defaultColorScale"`
}

// Options reports which fields and choices apply to chartType given the
// session's columns. x is the currently selected x column, used to decide
// whether aggregation is offered.
func (s *Service) Options(id string, chartType, x string) (*ChartOptions, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	def, ok := LookupChart(chartType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown chart type %q", ErrNoVisualization, chartType)
	}

	all := sess.Table.Names()
	numeric := append([]string{}, sess.Classification.Numeric...)
	choices := func(f Field) []string {
		switch {
		case !def.Accepts(f):
			return nil
		case def.NeedsNumeric(f):
			return numeric
		default:
			return all
		}
	}

	opts := &ChartOptions{
		Type:              def.Type,
		Label:             def.Label,
		Required:          nonNilFields(def.Required),
		X:                 choices(FieldX),
		Y:                 choices(FieldY),
		Z:                 choices(FieldZ),
		Color:             choices(FieldColor),
		Size:              choices(FieldSize),
		ColorScales:       ColorScaleNames(),
		DefaultColorScale: s.cfg.DefaultColorScale,
	}

	if def.Accepts(FieldAggregation) && x != "" {
		if col, ok := sess.Table.Column(x); ok && !col.IsNumeric() {
			opts.Aggregations = append([]Aggregation{}, Aggregations...)
		}
	}
	if def.Accepts(FieldBins) {
		opts.Bins = &Slider{Min: MinBins, Max: MaxBins, Default: DefaultBins}
	}
	if def.Accepts(FieldSizeMax) {
		opts.SizeMax = &Slider{Min: MinSizeMax, Max: MaxSizeMax, Default: DefaultSizeMax}
	}
	return opts, nil
}

// Chart builds a figure from the session's table. The session is never
// modified, whatever the outcome.
func (s *Service) Chart(ctx context.Context, id string, cfg ChartConfig) (*Figure, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	logger := logging.WithFields(ctx, "session_id", sess.ID, "chart", cfg.Type)

	if cfg.ColorScale == "" {
		cfg.ColorScale = s.cfg.DefaultColorScale
	}

	start := time.Now()
	fig, err := Build(sess.Table, cfg)
	if err != nil {
		logger.Warn("chart failed", "error", err)
		return nil, err
	}
	fig.Layout.Height = s.cfg.ChartHeight

	if rows := sess.Table.NumRows(); s.cfg.MaxPointsWarning > 0 && float64(rows) > s.cfg.MaxPointsWarning {
		logger.Warn("large figure", "rows", rows, "threshold", s.cfg.MaxPointsWarning)
	}
	logger.Debug("chart built",
		"traces", len(fig.Data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return fig, nil
}

// Report computes descriptive statistics for the session's table.
func (s *Service) Report(ctx context.Context, id string) (*Report, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	return Describe(ctx, sess.Table)
}

// Delete drops a session and its table.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.sessions.Delete(id) {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	logging.FromContext(ctx).Info("session deleted", "session_id", id)
	return nil
}

// countingReader tracks bytes read for ingest logging.
type countingReader struct {
	reader io.Reader
	n      int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.n += int64(n)
	return n, err
}

// ChartTypes lists registered chart types in selector order.
func (s *Service) ChartTypes() []ChartTypeInfo {
	defs := Charts()
	infos := make([]ChartTypeInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info()
	}
	return infos
}
