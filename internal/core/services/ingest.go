package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
	"github.com/stashware/dredge-cli/internal/core/ports/driving"
	"github.com/stashware/dredge-cli/internal/logger"
	"github.com/stashware/dredge-cli/internal/materializer"
	"github.com/stashware/dredge-cli/internal/parsers"
	"github.com/stashware/dredge-cli/internal/parsers/credential"
	"github.com/stashware/dredge-cli/internal/parsers/software"
	"github.com/stashware/dredge-cli/internal/parsers/systeminfo"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.IngestOrchestrator = (*IngestOrchestrator)(nil)

// progressEventsPerSecond throttles per-host progress emission so a
// large archive cannot flood the sink. The final event always goes out.
const progressEventsPerSecond = 20

// IngestOrchestrator sequences the ingestion pipeline: open reader, one
// scan pass, structure analysis, host grouping with the single bulk
// dedupe lookup, then per new host materialization, parsing and batched
// persistence. The archive handle stays open across the whole host loop
// since content is read lazily per host.
type IngestOrchestrator struct {
	hostStore driven.HostStore
	writer    driven.RelationalWriter
	settings  *SettingsService
	sink      driven.ProgressSink
	open      driven.ArchiveOpener

	credParser     *credential.Parser
	softwareParser *software.Parser
	sysInfoParser  *systeminfo.Parser
}

// NewIngestOrchestrator creates an orchestrator. The opener owns how
// archives are decoded; the orchestrator owns every reader's lifetime.
func NewIngestOrchestrator(
	hostStore driven.HostStore,
	writer driven.RelationalWriter,
	settings *SettingsService,
	sink driven.ProgressSink,
	open driven.ArchiveOpener,
) *IngestOrchestrator {
	return &IngestOrchestrator{
		hostStore:      hostStore,
		writer:         writer,
		settings:       settings,
		sink:           sink,
		open:           open,
		credParser:     credential.New(),
		softwareParser: software.New(),
		sysInfoParser:  systeminfo.New(),
	}
}

// Ingest processes one archive end to end. Only an unreadable archive
// index or caller cancellation yields a non-nil error; every other
// failure is absorbed into the summary.
func (o *IngestOrchestrator) Ingest(ctx context.Context, archivePath string) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{
		RunID:       uuid.New().String(),
		ArchivePath: archivePath,
		StartedAt:   time.Now().UTC(),
	}

	reader, err := o.open(archivePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	entries, err := reader.Scan()
	if err != nil {
		return nil, fmt.Errorf("scanning archive: %w", err)
	}

	info := AnalyzeStructure(entries)
	summary.Topology = info.Kind
	o.log(domain.SeverityInfo, "topology %s, confidence %s, %d top-level names",
		info.Kind, info.Kind.Confidence(), len(info.TopLevelNames))

	groups, err := GroupHosts(ctx, entries, info, o.hostStore)
	if err != nil {
		return nil, fmt.Errorf("grouping hosts: %w", err)
	}
	summary.HostsFound = len(groups)

	settings := o.settings.Ingest()
	runDir := filepath.Join(settings.OutputRoot, "extracted",
		summary.StartedAt.Format("2006-01-02"), summary.RunID)
	mat := materializer.New(reader, runDir, settings.FileWriteParallelLimit)
	persister := NewBatchPersister(o.writer, settings, o.sink)
	limiter := rate.NewLimiter(rate.Limit(progressEventsPerSecond), 1)

	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			// Caller-driven abort: written files and committed rows
			// intentionally stay in place.
			summary.Duration = time.Since(summary.StartedAt)
			return summary, err
		}

		if group.Status == domain.HostStatusSkipped {
			summary.HostsSkipped++
			o.log(domain.SeverityInfo, "host %s already on record, skipped", group.Name)
		} else {
			o.processHost(ctx, reader, group, mat, persister, summary)
		}

		if o.sink != nil && (limiter.Allow() || i == len(groups)-1) {
			o.sink.Progress(domain.ProgressEvent{
				HostIndex: i + 1,
				HostTotal: len(groups),
				HostName:  group.Name,
			})
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	logger.Info("Run %s complete: %d hosts found, %d processed, %d skipped, %d failed",
		summary.RunID, summary.HostsFound, summary.HostsProcessed,
		summary.HostsSkipped, summary.HostsFailed)
	return summary, nil
}

// processHost runs one new host through parsing, materialization and
// persistence. Nothing it does can fail the run.
func (o *IngestOrchestrator) processHost(
	ctx context.Context,
	reader driven.ArchiveReader,
	group *domain.HostGroup,
	mat *materializer.Materializer,
	persister *BatchPersister,
	summary *domain.RunSummary,
) {
	recognized := o.recognizedEntries(group)

	record := domain.HostRecord{
		ID:         group.ID,
		Name:       group.Name,
		Hash:       group.Hash,
		IngestedAt: time.Now().UTC(),
	}
	if entry, ok := recognized[parsers.KindSystemInfo]; ok {
		if text, err := reader.ReadText(entry[0]); err != nil {
			o.log(domain.SeverityWarn, "host %s: system info unreadable: %v", group.Name, err)
		} else {
			applyFingerprint(&record, o.sysInfoParser.Parse(text))
		}
	}

	// The host row goes in first; its failure aborts the host since no
	// child row may reference an unknown host.
	if err := o.hostStore.InsertHost(ctx, record); err != nil {
		summary.HostsFailed++
		o.log(domain.SeverityError, "host %s: %v: %v", group.Name, domain.ErrHostInsert, err)
		return
	}

	files := mat.Materialize(ctx, group)
	summary.FilesFailed += files.Failed

	var (
		creds     []domain.Credential
		passwords = make(map[string]int)
		inventory []domain.SoftwareEntry
	)
	for _, entry := range recognized[parsers.KindCredentials] {
		text, err := reader.ReadText(entry)
		if err != nil {
			o.log(domain.SeverityWarn, "host %s: %s unreadable: %v", group.Name, entry.Path, err)
			continue
		}
		parsed := o.credParser.Parse(text, entry.Path)
		creds = append(creds, parsed.Credentials...)
		for password, count := range parsed.PasswordCounts {
			passwords[password] += count
		}
	}
	for _, entry := range recognized[parsers.KindSoftware] {
		text, err := reader.ReadText(entry)
		if err != nil {
			o.log(domain.SeverityWarn, "host %s: %s unreadable: %v", group.Name, entry.Path, err)
			continue
		}
		inventory = append(inventory, o.softwareParser.Parse(text, entry.Path)...)
	}

	credOutcome := persister.SaveCredentials(ctx, group.ID, creds)
	statOutcome := persister.SavePasswordStats(ctx, group.ID, passwords)
	fileOutcome := persister.SaveFiles(ctx, group.ID, files.Files)
	softOutcome := persister.SaveSoftware(ctx, group.ID, inventory)

	summary.CredentialsSaved += credOutcome.Saved
	summary.PasswordStatsSaved += statOutcome.Saved
	summary.FilesSaved += fileOutcome.Saved
	summary.SoftwareSaved += softOutcome.Saved
	summary.RecordsSkipped += credOutcome.Skipped + statOutcome.Skipped +
		fileOutcome.Skipped + softOutcome.Skipped

	if err := o.hostStore.UpdateTotals(ctx, group.ID,
		credOutcome.Saved, fileOutcome.Saved, softOutcome.Saved); err != nil {
		o.log(domain.SeverityWarn, "host %s: totals update failed: %v", group.Name, err)
	}

	summary.HostsProcessed++
	logger.Debug("Host %s: %d credentials, %d files, %d software",
		group.Name, credOutcome.Saved, fileOutcome.Saved, softOutcome.Saved)
}

// recognizedEntries indexes a host's parser-recognized files by kind,
// in scan order.
func (o *IngestOrchestrator) recognizedEntries(
	group *domain.HostGroup,
) map[parsers.Kind][]domain.ArchiveEntry {
	recognized := make(map[parsers.Kind][]domain.ArchiveEntry)
	for _, entry := range group.Entries {
		if entry.IsDir {
			continue
		}
		if kind, ok := parsers.Recognize(entry.Path); ok {
			recognized[kind] = append(recognized[kind], entry)
		}
	}
	return recognized
}

// applyFingerprint copies parsed system info onto the host record.
func applyFingerprint(record *domain.HostRecord, info domain.SystemInfo) {
	record.ComputerName = info.ComputerName
	record.OSName = info.OSName
	record.UserName = info.UserName
	record.IPAddress = info.IPAddress
	record.Country = info.Country
	record.HWID = info.HWID
	record.LogDate = info.LogDate
}

// log routes a run log line through both the progress sink and the
// verbose logger.
func (o *IngestOrchestrator) log(severity domain.Severity, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if o.sink != nil {
		o.sink.Log(domain.LogEvent{Line: line, Severity: severity})
	}
	switch severity {
	case domain.SeverityWarn:
		logger.Warn("%s", line)
	case domain.SeverityError:
		logger.Warn("%s", line)
	default:
		logger.Info("%s", line)
	}
}
