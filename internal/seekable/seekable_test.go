// SPDX-License-Identifier: EPL-2.0

package seekable

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestFrom_KeepsSeeker(t *testing.T) {
	t.Parallel()

	r := bytes.NewReader([]byte("abc"))
	rs, err := From(r)
	if err != nil {
		t.Fatalf("From() error = %v", err)
	}
	if rs != io.ReadSeeker(r) {
		t.Error("From() wrapped a reader that could already seek")
	}
}

func TestFrom_BuffersPlainReader(t *testing.T) {
	t.Parallel()

	rs, err := From(iotest.OneByteReader(strings.NewReader("hello")))
	if err != nil {
		t.Fatalf("From() error = %v", err)
	}

	if _, err := rs.Seek(1, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	rest, _ := io.ReadAll(rs)
	if string(rest) != "ello" {
		t.Errorf("read %q after seek, want %q", rest, "ello")
	}
}

func TestFrom_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	if _, err := From(iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Errorf("From() error = %v, want %v", err, boom)
	}
}
