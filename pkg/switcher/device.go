package switcher

import "fmt"

const (
	unknownNameFormat        = "[unknown name %d]"
	unknownDescriptionFormat = "[unknown description %d]"

	// format this with description, index and name
	deviceStringFormat = "%s (%d, %s)"
)

// RawDevice is a sink as reported by the sound server. Name and Description are nil when
// the server didn't provide them.
type RawDevice struct {
	Index       uint32
	Name        *string
	Description *string
}

// Device is a sink with its name and description guaranteed to be non-empty
type Device struct {
	Index       uint32
	Name        string
	Description string
}

// NewDevice normalizes a raw sink record, substituting placeholders for missing fields
func NewDevice(raw RawDevice) Device {
	d := Device{
		Index:       raw.Index,
		Name:        fmt.Sprintf(unknownNameFormat, raw.Index),
		Description: fmt.Sprintf(unknownDescriptionFormat, raw.Index),
	}

	if raw.Name != nil {
		d.Name = *raw.Name
	}

	if raw.Description != nil {
		d.Description = *raw.Description
	}

	return d
}

// NewDevices normalizes every raw record, keeping the server's order
func NewDevices(raws []RawDevice) []Device {
	devices := make([]Device, 0, len(raws))
	for _, raw := range raws {
		devices = append(devices, NewDevice(raw))
	}

	return devices
}

func (d Device) String() string {
	return fmt.Sprintf(deviceStringFormat, d.Description, d.Index, d.Name)
}
