// Command openttd-admin-tool connects to an OpenTTD server's admin port
// and runs configured rcon commands on daily/monthly/yearly date change,
// the same job as the teacher's openttd_multitool
// (_examples/tardisx-openttd-admin/cmd/openttd_multitool), rebuilt on top
// of the Connection/Observation API instead of the blocking
// OpenTTDServer.Connect loop.
package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/tardisx/openttd-admin/pkg/admin"
)

const toolVersion = "0.03"

func main() {
	var (
		daily     []string
		monthly   []string
		yearly    []string
		hostname  string
		password  string
		secretKey string
		portNum   int
		insecure  bool
		verbose   bool
	)

	pflag.StringArrayVar(&daily, "daily", nil, "An RCON command to run daily - may be repeated")
	pflag.StringArrayVar(&monthly, "monthly", nil, "An RCON command to run monthly - may be repeated")
	pflag.StringArrayVar(&yearly, "yearly", nil, "An RCON command to run yearly - may be repeated")
	pflag.StringVar(&hostname, "hostname", "localhost", "The hostname (or IP address) of the OpenTTD server to connect to")
	pflag.StringVar(&password, "password", "", "The password for the admin interface ('admin_password' in openttd.cfg)")
	pflag.StringVar(&secretKey, "secret-key", "", "A 64-hex-character X25519 private key, for the authorized-key handshake")
	pflag.IntVar(&portNum, "port", admin.NetworkAdminPort, "The port number of the admin interface")
	pflag.BoolVar(&insecure, "insecure", false, "Use the legacy plaintext join instead of the encrypted handshake")
	pflag.BoolVar(&verbose, "verbose", false, "Log every observation to stderr")
	pflag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	if !verbose {
		log = log.Level(zerolog.WarnLevel)
	}

	if password == "" && secretKey == "" {
		log.Fatal().Msg("must supply --password and/or --secret-key")
	}

	conn, err := admin.NewConnection(admin.Config{
		Host:            hostname,
		Port:            portNum,
		Name:            "openttd-admin-tool",
		Version:         toolVersion,
		Password:        password,
		SecretKey:       secretKey,
		UseInsecureJoin: insecure,
		Logger:          log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("building connection")
	}

	if err := conn.Connect(); err != nil {
		log.Fatal().Err(err).Msg("connecting")
	}

	triggers := &dateTriggers{daily: daily, monthly: monthly, yearly: yearly, log: log}

	for obs := range conn.Observations() {
		switch o := obs.(type) {
		case admin.DateChangedObservation:
			triggers.fire(conn, o.Date)
		case admin.DisconnectedObservation:
			if o.Cause != nil {
				log.Error().Err(o.Cause).Msg("disconnected")
			}
			return
		default:
			if verbose {
				log.Debug().Interface("observation", o).Msg("received")
			}
		}
	}
}

// dateTriggers fires the configured rcon commands on each DateChanged
// observation, substituting %Y/%M/%D the way
// _examples/tardisx-openttd-admin/pkg/admin/admin.go's processCommand
// does.
type dateTriggers struct {
	daily, monthly, yearly []string
	log                    zerolog.Logger
}

func (d *dateTriggers) fire(conn *admin.Connection, date time.Time) {
	for _, cmd := range d.daily {
		d.run(conn, cmd, date)
	}
	if date.Day() == 1 {
		for _, cmd := range d.monthly {
			d.run(conn, cmd, date)
		}
	}
	if date.Day() == 1 && date.Month() == time.January {
		for _, cmd := range d.yearly {
			d.run(conn, cmd, date)
		}
	}
}

func (d *dateTriggers) run(conn *admin.Connection, cmd string, date time.Time) {
	cmd = strings.ReplaceAll(cmd, "%Y", date.Format("2006"))
	cmd = strings.ReplaceAll(cmd, "%M", date.Format("01"))
	cmd = strings.ReplaceAll(cmd, "%D", date.Format("02"))
	if err := conn.SendRcon(cmd); err != nil {
		d.log.Error().Err(err).Str("command", cmd).Msg("sending rcon command")
	}
}
