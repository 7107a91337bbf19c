// Package switcher cycles the sound server's default output device through
// a user-filtered subset of the available devices.
package switcher

import (
	"errors"
	"fmt"
	"io"

	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

var errAPIReturnedFalse = errors.New("API returned false")

// ConnectFunc opens a DeviceControl for the sound server at the given address
type ConnectFunc func(logger *zap.SugaredLogger, server string) (DeviceControl, error)

// Options configures a Switcher
type Options struct {
	// ConfigPath is an explicit config file; empty means the default location
	ConfigPath string

	// Server is the sound server address; empty means the default server
	Server string

	// Notify sends a desktop notification after the default device changes
	Notify bool

	Verbosity Verbosity

	// Connect overrides how the sound server is reached; nil means NewDeviceControl
	Connect ConnectFunc
}

// Switcher is the main entity managing access to all sub-components
type Switcher struct {
	logger   *zap.SugaredLogger
	options  Options
	config   *CanonicalConfig
	filter   *DeviceFilter
	control  DeviceControl
	notifier Notifier

	connect ConnectFunc
}

// snapshot is one consistent view of the server's devices
type snapshot struct {
	all      []Device
	matching []Device
	current  Device
}

// NewSwitcher creates a Switcher instance
func NewSwitcher(logger *zap.SugaredLogger, options Options) (*Switcher, error) {
	logger = logger.Named("switcher")

	config, err := NewConfig(logger)
	if err != nil {
		logger.Errorw("Failed to create Config", "error", err)
		return nil, fmt.Errorf("create new Config: %w", err)
	}

	s := &Switcher{
		logger:  logger,
		options: options,
		config:  config,
		connect: options.Connect,
	}

	if s.connect == nil {
		s.connect = NewDeviceControl
	}

	if options.Notify {
		notifier, err := NewToastNotifier(logger)
		if err != nil {
			logger.Errorw("Failed to create ToastNotifier", "error", err)
			return nil, fmt.Errorf("create new ToastNotifier: %w", err)
		}
		s.notifier = notifier
	}

	logger.Debug("Created switcher instance")

	return s, nil
}

// Initialize loads the config, compiles the device filter and connects to the sound server.
// Nothing is requested from the server if the config or any pattern is invalid.
func (s *Switcher) Initialize() error {
	s.logger.Debug("Initializing")

	if err := s.config.Load(s.options.ConfigPath); err != nil {
		s.logger.Errorw("Failed to load config during initialization", "error", err)
		return fmt.Errorf("load config: %w", err)
	}

	filter, err := CompileFilter(s.logger, s.config.Filter, s.options.Verbosity.Trace())
	if err != nil {
		s.logger.Errorw("Failed to compile device filter", "error", err)
		return fmt.Errorf("load config: %w", err)
	}
	s.filter = filter

	control, err := s.connect(s.logger, s.options.Server)
	if err != nil {
		s.logger.Errorw("Failed to create DeviceControl", "error", err)
		return fmt.Errorf("connect to sound server: %w", err)
	}
	s.control = control

	return nil
}

// List writes every device, the matching devices and the current default device to w
func (s *Switcher) List(w io.Writer) error {
	snap, err := s.takeSnapshot()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "All devices:")
	for _, d := range snap.all {
		fmt.Fprintln(w, d)
	}

	fmt.Fprintln(w, "\nMatching devices:")
	for _, d := range snap.matching {
		fmt.Fprintln(w, d)
	}

	fmt.Fprintf(w, "\nDefault device: %s\n", snap.current)

	return nil
}

// Next makes the matching device after the current default the new default, and returns it
func (s *Switcher) Next() (Device, error) {
	snap, err := s.takeSnapshot()
	if err != nil {
		return Device{}, err
	}

	next, err := NextDevice(snap.matching, snap.current)
	if err != nil {
		s.logger.Warnw("Failed to select next device", "error", err)
		return Device{}, fmt.Errorf("select next device: %w", err)
	}

	s.logger.Infof("Setting device '%s' as the default sink", next)

	ok, err := s.control.SetDefaultDevice(next.Name)
	if err != nil {
		return Device{}, newSwitchError(ErrorSetDefault, "failed setting default device", err)
	}
	if !ok {
		return Device{}, newSwitchError(ErrorSetDefault, "failed setting default device", errAPIReturnedFalse)
	}

	if s.notifier != nil {
		s.notifier.Notify("Audio output switched", next.Description)
	}

	return next, nil
}

// Release disconnects from the sound server
func (s *Switcher) Release() error {
	if s.control != nil {
		if err := s.control.Release(); err != nil {
			s.logger.Warnw("Failed to release device control", "error", err)
			return fmt.Errorf("release device control: %w", err)
		}
	}

	// attempt to sync on exit - this won't necessarily work but can't harm
	s.logger.Sync()

	return nil
}

func (s *Switcher) takeSnapshot() (*snapshot, error) {
	if s.control == nil || s.filter == nil {
		return nil, errors.New("switcher not initialized")
	}

	raws, err := s.control.ListDevices()
	if err != nil {
		s.logger.Warnw("Failed to list devices", "error", err)
		return nil, newSwitchError(ErrorDeviceList, "failed to list devices", err)
	}

	rawDefault, err := s.control.GetDefaultDevice()
	if err != nil {
		s.logger.Warnw("Failed to get default device", "error", err)
		return nil, newSwitchError(ErrorNoDefault, "failed to get default device", err)
	}

	snap := &snapshot{
		all:     NewDevices(raws),
		current: NewDevice(rawDefault),
	}
	snap.matching = s.filter.Apply(snap.all)

	s.logger.Debugw("Took device snapshot",
		"all", len(snap.all),
		"matching", funk.Map(snap.matching, func(d Device) string { return d.Name }),
		"default", snap.current.Name)

	return snap, nil
}
