// Package service wires the scoring engine, the text generator, distribution recovery
// and the comparator into one race analysis.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/v75-value/internal/comparison"
	"github.com/yourusername/v75-value/internal/config"
	"github.com/yourusername/v75-value/internal/generator"
	"github.com/yourusername/v75-value/internal/logger"
	"github.com/yourusername/v75-value/internal/metrics"
	"github.com/yourusername/v75-value/internal/models"
	"github.com/yourusername/v75-value/internal/recovery"
	"github.com/yourusername/v75-value/internal/scoring"
)

// Analysis outcomes reported to metrics and logs
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeFailed   = "failed"
)

// AnalysisOptions configures every stage of the pipeline
type AnalysisOptions struct {
	Scoring    scoring.Options
	Prompt     generator.PromptOptions
	Recovery   recovery.Options
	Comparison comparison.Options
	Model      string
}

// DefaultAnalysisOptions returns the defaults of every stage
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		Scoring: scoring.DefaultOptions(),
		Prompt: generator.PromptOptions{
			System:      generator.DefaultSystemPrompt,
			Temperature: 0.7,
			MaxTokens:   300,
			JSONMode:    true,
		},
		Recovery:   recovery.DefaultOptions(),
		Comparison: comparison.DefaultOptions(),
	}
}

// OptionsFromConfig maps the loaded configuration onto the pipeline options
func OptionsFromConfig(cfg *config.Config) AnalysisOptions {
	policy := models.MissingEntrantPolicy(cfg.Recovery.MissingEntrants)
	system := cfg.Generator.SystemPrompt
	if system == "" {
		system = generator.DefaultSystemPrompt
	}

	return AnalysisOptions{
		Scoring: scoring.Options{
			Weights: scoring.Weights{
				Form:           cfg.Scoring.FormWeight,
				Career:         cfg.Scoring.CareerWeight,
				DistanceShort:  cfg.Scoring.DistanceShortWeight,
				DistanceMedium: cfg.Scoring.DistanceMediumWeight,
				DistanceLong:   cfg.Scoring.DistanceLongWeight,
				TrackPosition:  cfg.Scoring.TrackPositionWeight,
			},
			TrackPath: scoring.TrackPath{
				Track:       cfg.Track.Name,
				Category:    cfg.Track.Category,
				Subcategory: cfg.Track.Subcategory,
			},
		},
		Prompt: generator.PromptOptions{
			System:      system,
			Temperature: cfg.Generator.Temperature,
			MaxTokens:   cfg.Generator.MaxTokens,
			JSONMode:    cfg.Generator.JSONMode,
		},
		Recovery: recovery.Options{
			Tolerance:       cfg.Recovery.Tolerance,
			MissingEntrants: policy,
		},
		Comparison: comparison.Options{
			Threshold:       cfg.Recovery.DeviationThreshold,
			MissingEntrants: policy,
		},
		Model: cfg.Generator.Model,
	}
}

// AnalysisResult is the output of one analysis run
type AnalysisResult struct {
	Run          models.AnalysisRun
	Ranked       []*models.Entrant
	Reply        string
	GeneratorErr error
	Distribution *models.RecoveredDistribution
	Report       *models.ComparisonReport
	Outcome      string
	Duration     time.Duration
}

// Render formats the ranking and the comparison report for the console
func (r *AnalysisResult) Render() string {
	var b strings.Builder
	b.WriteString(comparison.GenerateRankingReport(r.Run.RaceNumber, r.Ranked))
	b.WriteString("\n")
	if r.GeneratorErr != nil {
		fmt.Fprintf(&b, "Generator unavailable, using uniform distribution: %v\n\n", r.GeneratorErr)
	}
	b.WriteString(comparison.GenerateConsoleReport(r.Report))
	return b.String()
}

// AnalysisService runs the full pipeline for one race
type AnalysisService struct {
	generator   generator.TextGenerator
	opts        AnalysisOptions
	scorer      *scoring.Scorer
	recoverer   *recovery.Recoverer
	analysisLog *logger.AnalysisLogger
	auditLog    *logger.AuditLogger
	logger      *logrus.Logger
}

// NewAnalysisService creates an analysis service around a text generator
func NewAnalysisService(gen generator.TextGenerator, opts AnalysisOptions, log *logrus.Logger) *AnalysisService {
	if log == nil {
		log = logger.NewLoggerWithOutput("error", "", io.Discard)
	}
	return &AnalysisService{
		generator:   gen,
		opts:        opts,
		scorer:      scoring.NewScorer(opts.Scoring),
		recoverer:   recovery.NewRecoverer(opts.Recovery, log),
		analysisLog: logger.NewAnalysisLogger(log),
		auditLog:    logger.NewAuditLogger(log),
		logger:      log,
	}
}

// Analyze scores the race, asks the generator for a percentage distribution, recovers it
// from the reply and compares it with the betting shares. A generator failure does not
// abort the run; the uniform distribution is compared instead.
func (s *AnalysisService) Analyze(ctx context.Context, race *models.Race, market models.MarketData) (*AnalysisResult, error) {
	start := time.Now()
	run := models.NewAnalysisRun(race.Number)
	runID := run.ID.String()

	if err := race.Validate(); err != nil {
		s.analysisLog.LogAnalysisCompleted(runID, race.Number, OutcomeFailed, time.Since(start))
		metrics.RecordAnalysis(OutcomeFailed, time.Since(start).Seconds())
		return nil, fmt.Errorf("invalid race %d: %w", race.Number, err)
	}

	scoreStart := time.Now()
	ranked := s.scorer.Score(race, market)
	raceLabel := strconv.Itoa(race.Number)
	for _, e := range ranked {
		metrics.UpdateCompositeScore(raceLabel, strconv.Itoa(e.StartNumber), e.CompositeScore)
	}
	s.analysisLog.LogRaceScored(runID, race.Number, len(ranked), ranked[0].Name, ranked[0].CompositeScore, time.Since(scoreStart))

	result := &AnalysisResult{Run: run, Ranked: ranked}

	reply, genErr := s.generate(ctx, runID, ranked)
	if genErr != nil {
		if errors.Is(genErr, context.Canceled) {
			return nil, genErr
		}
		result.GeneratorErr = genErr
		result.Distribution = recovery.Uniform(ranked)
		metrics.RecordRecovery(string(models.RecoveryUniform), false, 0)
	} else {
		result.Reply = reply
		result.Distribution = s.recoverer.Recover(reply, ranked)
	}

	dist := result.Distribution
	s.analysisLog.LogRecovery(runID, string(dist.Method), len(dist.Entries), dist.Normalized, dist.MissingStartNumbers(ranked))

	result.Report = comparison.Compare(dist, ranked, s.opts.Comparison)
	for _, row := range result.Report.Rows {
		metrics.RecordComparisonRow(string(row.Status))
	}
	counts := result.Report.CountByStatus()
	s.analysisLog.LogComparison(runID, race.Number,
		counts[models.PlayStatusOverplayed], counts[models.PlayStatusUnderplayed], counts[models.PlayStatusNormal])

	result.Outcome = OutcomeSuccess
	if dist.IsFallback() {
		result.Outcome = OutcomeFallback
	}
	result.Duration = time.Since(start)

	metrics.RecordAnalysis(result.Outcome, result.Duration.Seconds())
	s.analysisLog.LogAnalysisCompleted(runID, race.Number, result.Outcome, result.Duration)
	s.auditLog.LogReportWritten(runID, race.Number, len(result.Report.Rows), dist.IsFallback())

	return result, nil
}

func (s *AnalysisService) generate(ctx context.Context, runID string, ranked []*models.Entrant) (string, error) {
	if s.generator == nil {
		return "", generator.ErrGeneratorUnavailable
	}

	req, err := generator.BuildRequest(ranked, s.opts.Prompt)
	if err != nil {
		return "", err
	}

	callStart := time.Now()
	reply, err := s.generator.Generate(ctx, req)
	s.analysisLog.LogGeneratorCall(runID, s.opts.Model, len(req.Prompt), len(reply), time.Since(callStart), err)
	if err != nil {
		return "", err
	}
	s.analysisLog.LogGeneratorReply(runID, reply)
	return reply, nil
}
