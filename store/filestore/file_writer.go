package filestore

import (
	"encoding/json"
	"os"

	"github.com/battlesnakeio/nol/store"
)

var openFileWriter = appendOnlyFileWriter

type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

// entry is one line of a game file. Exactly one field is set.
type entry struct {
	Created bool        `json:"created,omitempty"`
	Turn    *store.Turn `json:"turn,omitempty"`
	Ended   bool        `json:"ended,omitempty"`
}

func writeLine(w writer, data interface{}) error {
	j, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.WriteString(string(j) + "\n")
	return err
}

func appendOnlyFileWriter(path string) (writer, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
}
