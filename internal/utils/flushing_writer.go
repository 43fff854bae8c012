package utils

import "io"

type flushableWriter interface {
	Flush() error
}

// FlushingWriter flushes the destination after every write when it supports
// flushing, so buffered prompt output reaches the terminal immediately.
type FlushingWriter struct {
	destination io.Writer
}

// NewFlushingWriter wraps the destination writer.
func NewFlushingWriter(destination io.Writer) *FlushingWriter {
	return &FlushingWriter{destination: destination}
}

// Write forwards data to the destination and flushes it when possible.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	writtenBytes, writeError := writer.destination.Write(data)
	if writeError != nil {
		return writtenBytes, writeError
	}

	if flushable, supportsFlush := writer.destination.(flushableWriter); supportsFlush {
		if flushError := flushable.Flush(); flushError != nil {
			return writtenBytes, flushError
		}
	}

	return writtenBytes, nil
}
