package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-analytics-report/internal/model"
	"go-analytics-report/internal/store"
	"go-analytics-report/pkg/utils"
)

// ------------------- Report Pipeline Runner -------------------

// Run executes one report job: for every profile, the nine sections are
// fetched and aggregated in enumeration order, written into a workbook and
// the narrative accumulator, then both artifacts are finalized and
// persisted. Profiles are processed one at a time; a profile's failure
// aborts only its own artifacts. Cancellation is honored between profiles.
//
// progress may be nil; when set, it receives the fetch/write/done markers
// and is closed before Run returns.
func Run(ctx context.Context, jobID string, job model.ReportJobSpec, progress chan<- model.ProgressEvent) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting report job: %s\n", jobID)

	if progress != nil {
		defer close(progress)
	}

	store.UpdateReportStatus(jobID, "running")
	defer func() {
		if err != nil {
			store.UpdateReportStatus(jobID, "failed")
			store.SaveReportError(jobID, "", err)
		}
	}()

	if err = job.Validate(); err != nil {
		return fmt.Errorf("invalid job spec: %w", err)
	}
	rng, err := job.Range()
	if err != nil {
		return err
	}
	source, err := NewSource(job.Source)
	if err != nil {
		return err
	}

	outputDir := job.Output.Dir
	if outputDir == "" {
		outputDir = "outputs"
	}
	outputs := utils.NewOutputManager(outputDir)
	if err = outputs.EnsureOutputDirExists(); err != nil {
		return persistenceErr(outputDir, err)
	}

	failed := 0
	for _, profile := range job.Profiles {
		if ctx.Err() != nil {
			err = ctx.Err()
			return err
		}
		if runErr := runProfile(ctx, jobID, profile, rng, job, source, outputs, progress); runErr != nil {
			failed++
			log.Printf("❌ Profile %s failed in job %s: %v\n", profile.Name, jobID, runErr)
			store.SaveReportError(jobID, profile.ID, runErr)
		}
	}

	emit(jobID, progress, model.ProgressEvent{Stage: model.StageDone})

	if failed == len(job.Profiles) {
		err = fmt.Errorf("all %d profiles failed", failed)
		return err
	}
	store.UpdateReportStatus(jobID, "completed")
	fmt.Printf("🏁 Report job %s completed in %v (%d/%d profiles)\n",
		jobID, time.Since(start), len(job.Profiles)-failed, len(job.Profiles))
	return nil
}

// runProfile produces the two artifacts for one profile. The workbook, the
// accumulator, and every SectionResult live and die inside this call.
func runProfile(ctx context.Context, jobID string, profile model.Profile, rng model.DateRange,
	job model.ReportJobSpec, source ResultSource, outputs *utils.OutputManager,
	progress chan<- model.ProgressEvent) error {

	reportCtx := model.NewReportContext(profile, rng)
	emit(jobID, progress, model.ProgressEvent{Stage: model.StageFetching, Profile: profile.Name})
	fmt.Printf("➡️ Fetching query results for profile: %s\n", profile.Name)

	workbook, err := NewWorkbookAssembler()
	if err != nil {
		return err
	}
	defer workbook.Close()

	acc := model.NewAccumulator()
	for _, kind := range model.AllSections() {
		rs, err := source.Fetch(ctx, profile, kind, rng)
		if err != nil {
			return err
		}
		result := AggregateSection(reportCtx, kind, rs)
		if err := workbook.AddSheet(result); err != nil {
			return fmt.Errorf("layout sheet %s: %w", result.Title, err)
		}
		if err := acc.Append(result.Figures); err != nil {
			return err
		}
	}

	// Finalize-and-persist is its own stage, run only after every section
	// rule has completed.
	emit(jobID, progress, model.ProgressEvent{Stage: model.StageWriting, Profile: profile.Name})
	fmt.Printf("💾 Writing %s report and statistics\n", profile.Name)

	base := reportCtx.BaseFileName()
	workbookPath, err := outputs.GetOutputFilePath(jobID, base+".xlsx")
	if err != nil {
		return persistenceErr(base+".xlsx", err)
	}
	if err := workbook.Save(workbookPath); err != nil {
		return err
	}
	store.SaveArtifact(jobID, profile.ID, model.ArtifactWorkbook, workbookPath)

	assembler, err := NewDocumentAssembler(reportCtx, job.Company, acc)
	if err != nil {
		return err
	}
	documentPath, err := outputs.GetOutputFilePath(jobID, base+".pdf")
	if err != nil {
		return persistenceErr(base+".pdf", err)
	}
	if err := assembler.Build(documentPath); err != nil {
		return err
	}
	store.SaveArtifact(jobID, profile.ID, model.ArtifactDocument, documentPath)

	return nil
}

// emit forwards a progress event to the optional channel and the store's
// progress log. Channel sends never block the pipeline.
func emit(jobID string, progress chan<- model.ProgressEvent, event model.ProgressEvent) {
	store.SaveProgress(jobID, event)
	if progress == nil {
		return
	}
	select {
	case progress <- event:
	default:
	}
}
