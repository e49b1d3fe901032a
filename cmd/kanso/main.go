// Command kanso is the offline habit tracker. Habits and check-ins live in a
// local bbolt file and every figure is computed by the analytics engine.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/localstore"
	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/platform/config"
	"github.com/comitanigiacomo/kanso-habits/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dbPath     string
	logLevel   string
	now        func() time.Time
}

func newRootCmd() *cobra.Command {
	return newRootCmdAt(time.Now)
}

func newRootCmdAt(now func() time.Time) *cobra.Command {
	opts := &options{now: now}

	root := &cobra.Command{
		Use:   "kanso",
		Short: "Track habits offline and see how consistent you are",
		Long: `kanso keeps a local record of your habits and shows streaks,
completion rates and weekday patterns computed from it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logging.Init(logging.Options{Level: opts.logLevel})
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultCLIConfigPath(), "config file")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database file (overrides the config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newCheckInCmd(opts))
	root.AddCommand(newHabitsCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// session is an open store plus the calendar the user lives in.
type session struct {
	store *localstore.Store
	loc   *time.Location
	now   func() time.Time
}

func (o *options) open() (*session, error) {
	cfg, err := config.LoadCLI(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	log.Debug().Str("db", cfg.DBPath).Str("timezone", loc.String()).Msg("opening local store")
	store, err := localstore.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &session{store: store, loc: loc, now: o.now}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

func (s *session) today() time.Time {
	return analytics.Day(s.now().In(s.loc))
}

// day resolves the stats --today flag. Empty means today in the configured zone.
func (s *session) day(value string) (time.Time, error) {
	if value == "" {
		return s.today(), nil
	}
	d, err := analytics.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// checkInDay resolves the checkin --date flag with the same future-date rule
// as the API.
func (s *session) checkInDay(value string) (time.Time, error) {
	if value == "" {
		return s.today(), nil
	}
	d, err := domain.ParseCheckInDate(value, s.today())
	if errors.Is(err, domain.ErrInvalidDate) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, err
}
