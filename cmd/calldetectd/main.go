// Command calldetectd serves a call detector over HTTP and WebSocket.
//
// Telephony and audio focus run against in-process simulators that
// remote clients drive through sim/* commands, which makes the daemon
// a self-contained integration target for event consumers.
//
// Usage:
//
//	calldetectd run [--config calldetectd.ini]
//	calldetectd version
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	ini "gopkg.in/ini.v1"

	"github.com/opd-ai/calldetect"
	"github.com/opd-ai/calldetect/audiofocus"
	"github.com/opd-ai/calldetect/bridge"
	"github.com/opd-ai/calldetect/sim"
	"github.com/opd-ai/calldetect/telephony"
)

// Version is set at build time.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "calldetectd",
	Short: "Call state and audio focus detector daemon",
	Long: `calldetectd tracks call state and audio focus transitions and
relays every event to WebSocket clients. Telephony and audio focus run
against in-process simulators that clients drive through sim/* commands.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daemon until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the daemon version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "calldetectd.ini", "path to the settings file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runDaemon() error {
	cfg, err := loadConfigFile(cfgFile)
	if err != nil {
		return err
	}

	settings, err := LoadSettings(cfg)
	if err != nil {
		return fmt.Errorf("parsing settings: %w", err)
	}

	initLogging(cfg)
	defer closeLogging()

	phone, audio, options := buildSources(settings)

	detector, err := calldetect.New(options)
	if err != nil {
		return fmt.Errorf("creating detector: %w", err)
	}
	defer detector.Kill()

	status := detector.StartAllListeners()
	logrus.WithFields(logrus.Fields{
		"function":              "runDaemon",
		"gsm_listening":         status.GsmListening,
		"audio_focus_listening": status.AudioFocusListening,
	}).Info("Listeners started")

	server := bridge.NewServer(detector, phone, audio)
	defer server.Close()

	httpSrv := server.Start(settings.ListenAddr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.WithFields(logrus.Fields{
		"function": "runDaemon",
	}).Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "runDaemon",
			"error":    err,
		}).Warn("HTTP shutdown incomplete")
	}

	return nil
}

// loadConfigFile loads the ini file, falling back to built-in defaults
// when the file does not exist.
func loadConfigFile(path string) (*ini.File, error) {
	cfg, err := ini.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return ini.Empty(), nil
	}
	return nil, fmt.Errorf("loading settings from %s: %w", path, err)
}

// buildSources wires simulators according to settings. A disabled
// service gets no source, so its start reports unavailability.
func buildSources(settings *Settings) (*sim.Telephony, *sim.AudioFocus, *calldetect.Options) {
	options := calldetect.NewOptions()

	var phone *sim.Telephony
	if settings.TelephonyEnabled() {
		phone = sim.NewTelephony()
		phone.UseLegacyAPI(settings.TelephonyLegacy())
		options.Telephony = telephony.NewSource(phone)
	}

	var audio *sim.AudioFocus
	if settings.AudioEnabled() {
		audio = sim.NewAudioFocus()
		audio.UseLegacyAPI(settings.AudioLegacy())
		options.AudioFocus = audiofocus.NewSource(audio)
	}

	return phone, audio, options
}
