package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/battlesnakeio/nol/brain"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// Configuration variables. These aren't user facing but useful for tuning the
// snake and the server it runs in.
var (
	ListenAddr   = getEnvString("LISTEN_ADDR", ":"+getEnvString("PORT", "8080"))
	SnakeName    = getEnvString("SNAKE_NAME", "Nöl")
	SnakeColor   = getEnvString("SNAKE_COLOR", "#fe642e")
	SnakeHead    = getEnvString("SNAKE_HEAD", "smile")
	SnakeTail    = getEnvString("SNAKE_TAIL", "round-bum")
	Taunt        = getEnvString("SNAKE_TAUNT", "Nöl!")
	LogLevel     = getEnvString("LOG_LEVEL", "info")
	MoveRate     = rate.Limit(getEnvInt("MOVE_RPS", 200))
	MoveBurst    = getEnvInt("MOVE_BURST", 50)
	RecordTTL    = time.Duration(getEnvInt("RECORD_TTL_SECONDS", 24*60*60)) * time.Second
	MaxOpenConns = getEnvInt("MAX_OPEN_CONNS", 20)
	MaxIdleConns = getEnvInt("MAX_IDLE_CONNS", 20)
)

func getEnvString(varName string, defaults string) string {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	return val
}

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

// SetupLogging applies LogLevel to the standard logger. debug forces the debug
// level regardless of the environment.
func SetupLogging(debug bool) {
	level, err := log.ParseLevel(LogLevel)
	if err != nil {
		log.WithError(err).WithField("level", LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	if debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

// LoadWeights reads scoring weights from a YAML file on top of the defaults.
// Keys the file does not set keep their default value; unknown keys are an
// error. An empty path returns the defaults.
func LoadWeights(path string) (brain.Weights, error) {
	w := brain.DefaultWeights()
	if path == "" {
		return w, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return w, errors.Wrap(err, "config: reading weights")
	}
	return ParseWeights(data)
}

// ParseWeights decodes YAML weights on top of the defaults and validates the
// result.
func ParseWeights(data []byte) (brain.Weights, error) {
	w := brain.DefaultWeights()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil && err != io.EOF {
		return w, errors.Wrap(err, "config: parsing weights")
	}
	if err := w.Validate(); err != nil {
		return w, err
	}
	return w, nil
}
