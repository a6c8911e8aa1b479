package filestore

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// archive is what was read back from a game file.
type archive struct {
	entries []*entry
	// size is the length of the prefix holding complete entries.
	size int64
	// torn is set when a partial entry follows size.
	torn bool
	// unterminated is set when the last complete entry has no newline.
	unterminated bool
}

func readLine(r *bufio.Reader, out interface{}) (int, bool, error) {
	bytes, err := r.ReadBytes('\n')
	eof := err == io.EOF

	if err != nil && !eof {
		return 0, false, err
	}
	if eof && len(bytes) == 0 {
		return 0, false, nil
	}

	if err = json.Unmarshal(bytes, out); err != nil {
		return len(bytes), !eof, err
	}

	return len(bytes), !eof, nil
}

// readArchive reads every entry of a game file. A torn last line, left by a
// crash in the middle of a write, is not returned.
func readArchive(path string) (*archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	a := &archive{entries: []*entry{}}
	for more := true; more; {
		e := &entry{}
		n, next, err := readLine(reader, e)
		more = next
		if err != nil {
			if _, ok := err.(*json.SyntaxError); ok && !more {
				log.WithError(err).WithField("path", path).Warn("dropping torn entry")
				a.torn = true
				break
			}
			return nil, errors.Wrapf(err, "unable to read %s", path)
		}
		if n == 0 {
			break
		}
		a.size += int64(n)
		a.unterminated = !more
		if e.Created || e.Turn != nil || e.Ended {
			a.entries = append(a.entries, e)
		}
	}
	return a, nil
}

// repair makes the file safe to append to: a torn entry is cut off and a
// missing final newline is added.
func repair(path string, a *archive) error {
	if a.torn {
		if err := os.Truncate(path, a.size); err != nil {
			return errors.Wrapf(err, "unable to truncate %s", path)
		}
	}
	if !a.unterminated {
		return nil
	}
	w, err := openFileWriter(path)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", path)
	}
	if _, err := w.WriteString("\n"); err != nil {
		w.Close()
		return errors.Wrapf(err, "unable to terminate %s", path)
	}
	return w.Close()
}
