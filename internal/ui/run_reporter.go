package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/temirov/gomono/internal/utils"
)

const (
	repositoryStartedTemplateConstant    = "[%d/%d] %s\n"
	repositorySkippedTemplateConstant    = "skipping %s: %s\n"
	repositoryCompletedTemplateConstant  = "%s complete\n"
	branchMergedTemplateConstant         = "  merged branch %s (%s)\n"
	branchSkippedTemplateConstant        = "  skipped branch %s (%s)\n"
	tagRewrittenTemplateConstant         = "  rewrote tag %s as %s\n"
	tagSkippedTemplateConstant           = "  skipped tag %s (%s)\n"
	refRepairedTemplateConstant          = "  repaired interrupted work on %s\n"
	primaryBranchMissingTemplateConstant = "primary branch %s missing; leaving checkout unchanged\n"
	runCompletedTemplateConstant         = "monorepo ready in %s\n"
)

// ConsoleRunReporter narrates the progress of a monorepo merge run on a console writer.
type ConsoleRunReporter struct {
	writer        io.Writer
	headlineColor *color.Color
	successColor  *color.Color
	warningColor  *color.Color
}

// NewConsoleRunReporter constructs a reporter writing styled progress lines to the provided writer.
func NewConsoleRunReporter(writer io.Writer) *ConsoleRunReporter {
	return &ConsoleRunReporter{
		writer:        utils.NewProgressWriter(writer),
		headlineColor: color.New(color.Bold),
		successColor:  color.New(color.FgGreen),
		warningColor:  color.New(color.FgYellow),
	}
}

// RepositoryStarted announces the repository about to be merged alongside its position in the catalog.
func (reporter *ConsoleRunReporter) RepositoryStarted(repositoryName string, ordinal int, total int) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	reporter.headlineColor.Fprintf(reporter.writer, repositoryStartedTemplateConstant, ordinal, total, repositoryName)
}

// RepositorySkipped announces a repository left untouched together with the reason.
func (reporter *ConsoleRunReporter) RepositorySkipped(repositoryName string, reason string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	reporter.warningColor.Fprintf(reporter.writer, repositorySkippedTemplateConstant, repositoryName, reason)
}

// RepositoryCompleted announces that every branch and tag of a repository has been merged.
func (reporter *ConsoleRunReporter) RepositoryCompleted(repositoryName string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	reporter.successColor.Fprintf(reporter.writer, repositoryCompletedTemplateConstant, repositoryName)
}

// BranchMerged records a branch that was replayed into the monorepo.
func (reporter *ConsoleRunReporter) BranchMerged(repositoryName string, branchName string, reason string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	fmt.Fprintf(reporter.writer, branchMergedTemplateConstant, branchName, reason)
}

// BranchSkipped records a branch the classifier rejected.
func (reporter *ConsoleRunReporter) BranchSkipped(repositoryName string, branchName string, reason string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	fmt.Fprintf(reporter.writer, branchSkippedTemplateConstant, branchName, reason)
}

// TagRewritten records a tag that was renamed into the repository namespace.
func (reporter *ConsoleRunReporter) TagRewritten(repositoryName string, tagName string, namespacedTagName string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	fmt.Fprintf(reporter.writer, tagRewrittenTemplateConstant, tagName, namespacedTagName)
}

// TagSkipped records a tag left untouched together with the reason.
func (reporter *ConsoleRunReporter) TagSkipped(repositoryName string, tagName string, reason string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	fmt.Fprintf(reporter.writer, tagSkippedTemplateConstant, tagName, reason)
}

// RefRepaired records recovery work performed on a ref interrupted by an earlier run.
func (reporter *ConsoleRunReporter) RefRepaired(repositoryName string, refName string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	fmt.Fprintf(reporter.writer, refRepairedTemplateConstant, refName)
}

// PrimaryBranchMissing announces that the requested primary branch never materialized.
func (reporter *ConsoleRunReporter) PrimaryBranchMissing(branchName string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	reporter.warningColor.Fprintf(reporter.writer, primaryBranchMissingTemplateConstant, branchName)
}

// RunCompleted announces the location of the finished monorepo.
func (reporter *ConsoleRunReporter) RunCompleted(directoryPath string) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	reporter.successColor.Fprintf(reporter.writer, runCompletedTemplateConstant, directoryPath)
}
