package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sonar-radar.klederson.com/internal/app"
	"sonar-radar.klederson.com/internal/clock"
	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/logging"
	"sonar-radar.klederson.com/internal/radar"
	"sonar-radar.klederson.com/internal/scan"
	"sonar-radar.klederson.com/internal/sonar"
)

var (
	flagDemo      bool
	flagPort      string
	flagBaud      int
	flagBLE       string
	flagConfig    string
	flagLog       string
	flagLogLevel  string
	flagFaultRate float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sonar-radar",
		Short: "Sonar Radar - ultrasonic sweep radar in the terminal",
		Long: `Sonar Radar pans an ultrasonic rangefinder across a half circle on a servo,
plotting each echo on a phosphor-green radar display.

The sensor head is reached over a serial port (--port) or Bluetooth LE (--ble).
Use --demo to sweep a simulated room without hardware.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Sweep a simulated head (default when no port or BLE name is given)")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "Serial port of the sensor head, e.g. /dev/ttyUSB0")
	rootCmd.Flags().IntVar(&flagBaud, "baud", config.SerialBaud, "Serial baud rate")
	rootCmd.Flags().StringVar(&flagBLE, "ble", "", "BLE local name of the sensor head")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "YAML file overriding display, sweep, timing and sensor settings")
	rootCmd.Flags().StringVar(&flagLog, "log", "", "Append logs to this file")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().Float64Var(&flagFaultRate, "fault-rate", 0, "Probability a simulated servo move stalls (demo only)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// head is a sensor head: servo and rangefinder behind one connection.
type head interface {
	scan.Actuator
	scan.Sampler
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.Load(flagConfig); err != nil {
			return err
		}
	}

	logs, err := logging.Setup(flagLog, flagLogLevel)
	if err != nil {
		return err
	}
	defer logs.Close()
	log := logging.For("main")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, backend, closer, err := openHead(ctx)
	if err != nil {
		if flagBLE != "" || flagPort != "" {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			fmt.Fprintln(os.Stderr, "Could not reach the sensor head. Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo ./sonar-radar --ble RADAR-HEAD")
			fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./sonar-radar")
			fmt.Fprintln(os.Stderr, "  ./sonar-radar --demo    (demo mode, no hardware needed)")
		}
		return err
	}
	defer closer.Close()
	log.WithField("backend", backend).Info("sensor head ready")

	// p is assigned before the loop starts; both callbacks run on the loop goroutine
	var p *tea.Program
	canvas := radar.NewCanvas(radar.NewGeometry(cfg), func(frame string) error {
		p.Send(app.FrameMsg(frame))
		return nil
	})
	loop := scan.New(scan.Options{
		Actuator: h,
		Sampler:  h,
		Display:  canvas,
		Config:   cfg,
		OnTick: func(rep scan.Report) {
			p.Send(app.ReportMsg(rep))
		},
	})

	p = tea.NewProgram(
		app.New(loop, canvas, backend, cfg.Sensor.MaxCM),
		tea.WithAltScreen(),
	)

	done := make(chan error, 1)
	go func() {
		err := loop.Run(ctx)
		p.Send(app.StoppedMsg{Err: err})
		done <- err
	}()

	_, uiErr := p.Run()
	// if the UI went first, the loop's next frame fails and it tears down
	canvas.Lose()
	stop()
	loopErr := <-done

	if uiErr != nil {
		log.WithError(uiErr).Error("ui exited")
	}
	return errors.Join(uiErr, loopErr)
}

// openHead connects the backend selected by the flags.
func openHead(ctx context.Context) (head, string, io.Closer, error) {
	switch {
	case flagBLE != "" && flagPort != "":
		return nil, "", nil, errors.New("--ble and --port are mutually exclusive")

	case flagDemo && (flagBLE != "" || flagPort != ""):
		return nil, "", nil, errors.New("--demo cannot be combined with --ble or --port")

	case flagPort != "":
		link, err := sonar.OpenSerial(flagPort, flagBaud)
		if err != nil {
			return nil, "", nil, err
		}
		return link, "serial " + flagPort, link, nil

	case flagBLE != "":
		link, err := sonar.OpenBLE(ctx, flagBLE)
		if err != nil {
			return nil, "", nil, err
		}
		return link, "ble " + flagBLE, link, nil

	default:
		sim := sonar.NewSimHead(clock.System{}, sonar.SimOptions{
			Seed:       time.Now().UnixNano(),
			FaultRate:  flagFaultRate,
			GlitchRate: 0.02,
			Noise:      0.01,
		})
		return sim, "demo", io.NopCloser(nil), nil
	}
}
