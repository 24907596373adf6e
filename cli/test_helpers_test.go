package cli

import (
	"bytes"
	"io"
	"os"
)

// captureOutput returns everything f prints to stdout. Output is drained
// concurrently so large command output cannot fill the pipe.
func captureOutput(f func()) string {
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		f()
		return ""
	}

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	os.Stdout = w
	defer func() { os.Stdout = orig }()

	f()

	w.Close()
	return <-done
}
