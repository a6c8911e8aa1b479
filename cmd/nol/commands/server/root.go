package server

import (
	"net/http"

	"github.com/battlesnakeio/nol/api"
	"github.com/battlesnakeio/nol/brain"
	"github.com/battlesnakeio/nol/config"
	"github.com/battlesnakeio/nol/store"
	"github.com/battlesnakeio/nol/store/filestore"
	"github.com/battlesnakeio/nol/store/redisstore"
	"github.com/battlesnakeio/nol/store/sqlstore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	listen      = config.ListenAddr
	redisURL    = ""
	databaseURL = ""
	recordDir   = ""
	weightsFile = ""
	promEnable  = true
	promListen  = ":9000"
)

// RootCmd provides the root run command.
var RootCmd = &cobra.Command{
	Use:    "server",
	Short:  "serve the snake api",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		weights, err := config.LoadWeights(weightsFile)
		if err != nil {
			log.WithError(err).WithField("weights", weightsFile).Fatal("invalid weights")
		}

		st, err := newStore()
		if err != nil {
			log.WithError(err).Fatal("unable to open store")
		}

		engine := brain.New(weights, brain.WithObserver(brain.Observers{
			api.DecisionMetrics,
			brain.LogObserver{},
		}))

		s := api.New(listen, engine,
			api.WithStore(store.InstrumentStore(st)),
			api.WithRateLimit(rate.NewLimiter(config.MoveRate, config.MoveBurst)),
			api.WithSnakeInfo(api.SnakeInfo{
				Name:  config.SnakeName,
				Color: config.SnakeColor,
				Head:  config.SnakeHead,
				Tail:  config.SnakeTail,
				Taunt: config.Taunt,
			}),
		)
		if err := s.WaitForExit(); err != nil {
			log.WithError(err).
				WithField("listen", listen).
				Fatal("api server failed")
		}
	},
}

func init() {
	RootCmd.Flags().StringVarP(&listen, "listen", "l", listen, "api address to listen on")
	RootCmd.Flags().StringVar(&redisURL, "redis-url", redisURL, "record games in redis at this url")
	RootCmd.Flags().StringVar(&databaseURL, "database-url", databaseURL, "record games in postgres at this url")
	RootCmd.Flags().StringVar(&recordDir, "record-dir", recordDir, "record games as files in this directory")
	RootCmd.Flags().StringVarP(&weightsFile, "weights", "w", weightsFile, "yaml file with scoring weights")
	RootCmd.Flags().BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	RootCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

func newStore() (store.Store, error) {
	switch {
	case redisURL != "":
		log.Info("recording games in redis")
		return redisstore.NewRedisStore(redisURL, config.RecordTTL)
	case databaseURL != "":
		log.Info("recording games in postgres")
		return sqlstore.NewSQLStore(databaseURL, sqlstore.Options{
			MaxOpenConns: config.MaxOpenConns,
			MaxIdleConns: config.MaxIdleConns,
		})
	case recordDir != "":
		log.WithField("dir", recordDir).Info("recording games in files")
		return filestore.NewFileStore(recordDir)
	default:
		log.Info("recording games in memory")
		return store.InMemStore(), nil
	}
}

func prometheus() {
	if !promEnable {
		log.Info("prometheus exporter not enabled")
		return
	}

	log.WithField("addr", promListen).Info("starting prometheus exporter")
	go func() {
		r := http.NewServeMux()
		r.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(promListen, r); err != nil {
			log.WithError(err).Warn("prometheus failed to listen")
		}
	}()
}
