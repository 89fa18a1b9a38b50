// Package pipeline drives the per-document extraction sequence — segmentation,
// per-category parsing, record assembly, validation — and fans it out over a
// bounded worker pool for whole-corpus runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
	"github.com/ijm11/becas-extractor/pkg/document"
	"github.com/ijm11/becas-extractor/pkg/fields"
	"github.com/ijm11/becas-extractor/pkg/record"
	"github.com/ijm11/becas-extractor/pkg/segment"
	"github.com/ijm11/becas-extractor/pkg/validate"
)

// DefaultWorkers bounds concurrent document extraction in ProcessAll.
const DefaultWorkers = 4

// Config holds the collaborators of an Extractor. Zero-value fields fall back
// to defaults.
type Config struct {
	// Workers bounds concurrency in ProcessAll.
	Workers int

	// Registry supplies article identifiers; nil means the built-in set.
	Registry *segment.Registry

	// Validator runs the consistency checks; nil means default bounds.
	Validator *validate.Validator

	Logger *slog.Logger
}

// Extractor turns announcement documents into validated records.
type Extractor struct {
	segmenter *segment.Segmenter
	validator *validate.Validator
	logger    *slog.Logger
	workers   int
}

// New creates an extractor from the given configuration.
func New(cfg Config) *Extractor {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	validator := cfg.Validator
	if validator == nil {
		validator = validate.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		segmenter: segment.NewSegmenter(cfg.Registry),
		validator: validator,
		logger:    logger,
		workers:   workers,
	}
}

// categoryFor maps a registry span key to the category name used in anomaly
// reports, so that segmentation misses and parse failures name categories the
// same way.
var categoryFor = map[string]fields.Category{
	"programas":             fields.CategoryPrograms,
	"cuantias":              fields.CategoryAmounts,
	"insular":               fields.CategoryInsular,
	"discapacidad":          fields.CategoryDisability,
	"deducciones":           fields.CategoryDeductions,
	"umbrales_renta":        fields.CategoryIncomeThresholds,
	"umbrales_patrimonio":   fields.CategoryAssetThresholds,
	"requisitos_academicos": fields.CategoryAcademic,
	"plazos":                fields.CategoryDeadlines,
}

func anomalyCategory(key string) string {
	if c, ok := categoryFor[key]; ok {
		return string(c)
	}
	return key
}

// Extract runs the full per-document sequence and returns the validated
// record. Extraction is total: category failures degrade the record and are
// reported as anomalies, they never abort the document.
func (e *Extractor) Extract(doc document.Document) (*record.Record, error) {
	seg := e.segmenter.Segment(doc.RawText)

	var parts record.Parts
	for _, key := range seg.Misses {
		parts.Anomalies = append(parts.Anomalies, record.Anomaly{
			Kind:     record.AnomalySegmentationMiss,
			Category: anomalyCategory(key),
			Reason:   "article heading not found",
		})
		e.logger.Warn("article heading not found", "source", doc.SourceID, "category", key)
	}

	parseSpan(e, doc, seg, "programas", fields.CategoryPrograms, fields.ParsePrograms,
		func(v *fields.Programs) { parts.Programas = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "cuantias", fields.CategoryAmounts, fields.ParseAmounts,
		func(v *fields.AmountSet) { parts.Cuantias = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "cuantias", fields.CategoryExcellence, fields.ParseExcellence,
		func(v *fields.ExcellenceTable) { parts.ExcelenciaTramos = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "umbrales_renta", fields.CategoryIncomeThresholds, fields.ParseIncomeThresholds,
		func(v *fields.IncomeThresholds) { parts.UmbralesRenta = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "umbrales_patrimonio", fields.CategoryAssetThresholds, fields.ParseAssetThresholds,
		func(v *fields.AssetThresholds) { parts.UmbralesPatrimonio = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "requisitos_academicos", fields.CategoryAcademic, fields.ParseAcademicRequirements,
		func(v *fields.AcademicRequirements) { parts.RequisitosAcademicos = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "insular", fields.CategoryInsular, fields.ParseInsularSupplements,
		func(v *fields.InsularSupplements) { parts.SuplementosInsulares = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "deducciones", fields.CategoryDeductions, fields.ParseIncomeDeductions,
		func(v *fields.IncomeDeductions) { parts.DeduccionesRenta = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "discapacidad", fields.CategoryDisability, fields.ParseDisabilityProvisions,
		func(v *fields.DisabilityProvisions) { parts.Discapacidad = v }, &parts.Anomalies)
	parseSpan(e, doc, seg, "plazos", fields.CategoryDeadlines,
		func(body string) (*fields.Deadlines, string, error) {
			return fields.ParseDeadlines(body, doc.AcademicYear)
		},
		func(v *fields.Deadlines) { parts.PlazosSolicitud = v }, &parts.Anomalies)

	rec, err := record.Assemble(doc.AcademicYear, doc.SourceID, parts)
	if err != nil {
		return nil, fmt.Errorf("assembling record for %s: %w", doc.SourceID, err)
	}

	e.validator.Validate(rec)
	e.logger.Info("document extracted",
		"source", doc.SourceID,
		"year", doc.AcademicYear,
		"leaves", rec.LeafCount(),
		"anomalies", len(rec.ValidationReport.Anomalies))
	return rec, nil
}

// parseSpan applies one category parser to its article span, if the span was
// found, and records a dispatch miss when no format strategy recognizes the
// span's layout.
func parseSpan[T any](e *Extractor, doc document.Document, seg *segment.Segmentation,
	key string, category fields.Category, parse func(string) (T, string, error),
	assign func(T), anomalies *[]record.Anomaly) {
	sp, ok := seg.Span(key)
	if !ok {
		return // already recorded as a segmentation miss
	}

	v, strategy, err := parse(sp.Body)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnrecognized) {
			*anomalies = append(*anomalies, record.Anomaly{
				Kind:     record.AnomalyDispatchMiss,
				Category: string(category),
				Reason:   fmt.Sprintf("no format strategy matched artículo %d", sp.Article),
			})
			e.logger.Warn("no format strategy matched",
				"source", doc.SourceID, "category", category, "article", sp.Article)
			return
		}
		*anomalies = append(*anomalies, record.Anomaly{
			Kind:     record.AnomalyParseFailure,
			Category: string(category),
			Reason:   err.Error(),
		})
		return
	}

	assign(v)
	e.logger.Debug("category parsed",
		"source", doc.SourceID, "category", category, "strategy", strategy)
}

// ProcessAll extracts every document concurrently and returns the corpus in
// chronological order. Extraction of one document never affects another; the
// first assembly error is returned after all workers finish.
func (e *Extractor) ProcessAll(ctx context.Context, docs []document.Document) (record.Corpus, error) {
	results := make(chan *record.Record, len(docs))
	errs := make(chan error, len(docs))
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for _, doc := range docs {
		wg.Add(1)
		go func(doc document.Document) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return
			default:
			}

			rec, err := e.Extract(doc)
			if err != nil {
				errs <- err
				return
			}
			results <- rec
		}(doc)
	}

	go func() {
		wg.Wait()
		close(results)
		close(errs)
	}()

	corpus := make(record.Corpus, 0, len(docs))
	for rec := range results {
		corpus = append(corpus, rec)
	}
	corpus.Sort()

	if err := <-errs; err != nil {
		return corpus, err
	}
	if err := ctx.Err(); err != nil {
		return corpus, err
	}
	return corpus, nil
}
