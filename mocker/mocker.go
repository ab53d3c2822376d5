// Package mocker provides useful tools that can be used in unit tests
package mocker

import (
	"bytes"
	"io"
	"os"
)

// Tests quite often require to replace original functions or state variables by the mock ones.
// Function below preserves and restores an item (function or variable).
//
// This function should be used like
//
// 		defer mocker.ReplaceItem(&orgVal, newVal)()
//
// - note extra brackets.
func ReplaceItem[T any](orgVal *T, newVal T) func() {
	saveVal := *orgVal
	*orgVal = newVal
	return func() { *orgVal = saveVal }
}

// Creates memory-based file for testing console output
func CreateStream() (*os.File, chan string) {
	r, outStream, _ := os.Pipe()

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	return outStream, outC
}

// Reads from memory-based file for testing console output
func ReadStream(outStream *os.File, outC chan string) string {
	outStream.Close()

	output := <-outC
	return output
}
