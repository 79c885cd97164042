package monorepo

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	catalogCommentMarkerConstant           = "#"
	catalogPathSeparatorCharactersConstant = "/\\"
	catalogMaximumFieldCountConstant       = 3

	catalogReadErrorTemplateConstant   = "failed to read repository catalog: %w"
	validationErrorTemplateConstant    = "line %d (%q): %s"
	targetNameMissingMessageConstant   = "target name is required"
	targetNameSeparatorMessageConstant = "target name must not contain path separators"
	tooManyFieldsMessageConstant       = "expected at most source, target name, and target folder"
	duplicateTargetNameMessageTemplate = "target name %q already used"
)

// RepositoryRecord describes one source repository to fold into the monorepo.
// TargetName doubles as the remote identifier and the tag namespace;
// TargetFolder is the path-rewrite prefix and defaults to TargetName.
type RepositoryRecord struct {
	SourceLocation string
	TargetName     string
	TargetFolder   string
}

// ValidationError reports a malformed repository catalog line.
type ValidationError struct {
	LineNumber int
	Line       string
	Message    string
}

// Error renders the offending line alongside the validation message.
func (validationError ValidationError) Error() string {
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.LineNumber, validationError.Line, validationError.Message)
}

// ParseCatalog reads the catalog stream into repository records.
// Each line holds a source location, a target name, and an optional target
// folder separated by whitespace. Comments start with # and run to end of
// line; blank lines are ignored. The entire catalog must parse before any
// repository is touched, so the first malformed line aborts parsing.
func ParseCatalog(reader io.Reader) ([]RepositoryRecord, error) {
	var records []RepositoryRecord
	seenTargetNames := map[string]struct{}{}

	lineScanner := bufio.NewScanner(reader)
	lineNumber := 0
	for lineScanner.Scan() {
		lineNumber++
		rawLine := lineScanner.Text()

		contentLine := rawLine
		if commentIndex := strings.Index(contentLine, catalogCommentMarkerConstant); commentIndex >= 0 {
			contentLine = contentLine[:commentIndex]
		}

		fields := strings.Fields(contentLine)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 {
			return nil, ValidationError{LineNumber: lineNumber, Line: rawLine, Message: targetNameMissingMessageConstant}
		}
		if len(fields) > catalogMaximumFieldCountConstant {
			return nil, ValidationError{LineNumber: lineNumber, Line: rawLine, Message: tooManyFieldsMessageConstant}
		}

		record := RepositoryRecord{SourceLocation: fields[0], TargetName: fields[1], TargetFolder: fields[1]}
		if len(fields) == catalogMaximumFieldCountConstant {
			record.TargetFolder = fields[2]
		}

		if containsPathSeparator(record.TargetName) {
			return nil, ValidationError{LineNumber: lineNumber, Line: rawLine, Message: targetNameSeparatorMessageConstant}
		}
		if _, alreadySeen := seenTargetNames[record.TargetName]; alreadySeen {
			return nil, ValidationError{
				LineNumber: lineNumber,
				Line:       rawLine,
				Message:    fmt.Sprintf(duplicateTargetNameMessageTemplate, record.TargetName),
			}
		}
		seenTargetNames[record.TargetName] = struct{}{}

		records = append(records, record)
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, fmt.Errorf(catalogReadErrorTemplateConstant, scanError)
	}

	return records, nil
}

func containsPathSeparator(value string) bool {
	return strings.ContainsAny(value, catalogPathSeparatorCharactersConstant)
}
