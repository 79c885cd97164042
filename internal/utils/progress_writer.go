package utils

import (
	"errors"
	"io"
	"sync"
	"syscall"
)

// ProgressWriter pushes console progress through buffered destinations immediately.
//
// History rewrites can run for minutes per repository; wrapping the destination
// keeps each status line visible as it is produced instead of arriving in a
// burst when the buffer finally drains.
type ProgressWriter struct {
	destination io.Writer
	writeGuard  sync.Mutex
}

type flushableDestination interface {
	Flush() error
}

type syncableDestination interface {
	Sync() error
}

// NewProgressWriter wraps destination so every write is pushed through to the reader.
func NewProgressWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return nil
	}
	if _, alreadyWrapping := destination.(*ProgressWriter); alreadyWrapping {
		return destination
	}
	return &ProgressWriter{destination: destination}
}

// Write forwards data to the destination and drains any buffering it exposes.
func (progressWriter *ProgressWriter) Write(data []byte) (int, error) {
	if progressWriter == nil || progressWriter.destination == nil {
		return 0, nil
	}

	progressWriter.writeGuard.Lock()
	defer progressWriter.writeGuard.Unlock()

	writtenByteCount, writeError := progressWriter.destination.Write(data)
	if writeError != nil {
		return writtenByteCount, writeError
	}

	return writtenByteCount, progressWriter.drainDestination()
}

func (progressWriter *ProgressWriter) drainDestination() error {
	switch bufferedDestination := progressWriter.destination.(type) {
	case flushableDestination:
		return bufferedDestination.Flush()
	case syncableDestination:
		syncError := bufferedDestination.Sync()
		if syncError == nil || errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) {
			// Terminals and pipes reject fsync but deliver writes immediately.
			return nil
		}
		return syncError
	default:
		return nil
	}
}
