package switcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devicesNamed(names ...string) []Device {
	devices := make([]Device, 0, len(names))
	for idx, name := range names {
		devices = append(devices, Device{Index: uint32(idx), Name: name, Description: "desc " + name})
	}
	return devices
}

func TestNextDevice(t *testing.T) {
	filtered := devicesNamed("A", "B", "C")

	tests := []struct {
		name    string
		current string
		want    string
	}{
		{name: "advances", current: "A", want: "B"},
		{name: "advances from middle", current: "B", want: "C"},
		{name: "wraps around", current: "C", want: "A"},
		{name: "falls back to first", current: "Z", want: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := NextDevice(filtered, Device{Name: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.Name)
		})
	}
}

func TestNextDeviceComparesByName(t *testing.T) {
	filtered := devicesNamed("A", "B", "C")

	// same name as "A" but a different index and description
	current := Device{Index: 42, Name: "A", Description: "something else"}

	next, err := NextDevice(filtered, current)
	require.NoError(t, err)
	assert.Equal(t, "B", next.Name)
}

func TestNextDeviceCycles(t *testing.T) {
	filtered := devicesNamed("A", "B", "C", "D", "E")

	for start := range filtered {
		current := filtered[start]
		for i := 0; i < len(filtered); i++ {
			next, err := NextDevice(filtered, current)
			require.NoError(t, err)
			assert.Equal(t, filtered[(start+i+1)%len(filtered)], next)
			current = next
		}
		assert.Equal(t, filtered[start], current)
	}
}

func TestNextDeviceSingleElement(t *testing.T) {
	filtered := devicesNamed("only")

	next, err := NextDevice(filtered, filtered[0])
	require.NoError(t, err)
	assert.Equal(t, filtered[0], next)

	next, err = NextDevice(filtered, Device{Name: "other"})
	require.NoError(t, err)
	assert.Equal(t, filtered[0], next)
}

func TestNextDeviceDuplicateNames(t *testing.T) {
	filtered := devicesNamed("A", "B", "A", "C")

	next, err := NextDevice(filtered, Device{Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, filtered[1], next, "the first occurrence decides")
}

func TestNextDeviceEmpty(t *testing.T) {
	for _, filtered := range [][]Device{nil, {}} {
		assert.NotPanics(t, func() {
			_, err := NextDevice(filtered, Device{Name: "A"})
			assert.True(t, IsKind(err, ErrorNoMatch))
			assert.EqualError(t, err, "no matching devices found")
		})
	}
}

func TestNextDeviceIsPure(t *testing.T) {
	filtered := devicesNamed("A", "B", "C")
	original := append([]Device(nil), filtered...)

	first, err := NextDevice(filtered, Device{Name: "B"})
	require.NoError(t, err)
	second, err := NextDevice(filtered, Device{Name: "B"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, original, filtered)
}
