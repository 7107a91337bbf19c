package switcher

// DeviceControl represents an entity that can list the sound server's output devices
// and change which one is the default
type DeviceControl interface {
	ListDevices() ([]RawDevice, error)
	GetDefaultDevice() (RawDevice, error)

	// SetDefaultDevice returns false without an error when the server accepted the
	// request but the default didn't change
	SetDefaultDevice(name string) (bool, error)

	Release() error
}
