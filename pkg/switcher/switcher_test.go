package switcher

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeDeviceControl struct {
	devices    []RawDevice
	defaultIdx int

	listErr    error
	defaultErr error
	setErr     error
	setResult  bool

	setCalls []string
	released bool
}

func newFakeDeviceControl(names ...string) *fakeDeviceControl {
	fc := &fakeDeviceControl{setResult: true}
	for idx, name := range names {
		fc.devices = append(fc.devices, RawDevice{
			Index:       uint32(idx),
			Name:        strPtr(name),
			Description: strPtr("Device " + name),
		})
	}
	return fc
}

func (fc *fakeDeviceControl) ListDevices() ([]RawDevice, error) {
	if fc.listErr != nil {
		return nil, fc.listErr
	}
	return fc.devices, nil
}

func (fc *fakeDeviceControl) GetDefaultDevice() (RawDevice, error) {
	if fc.defaultErr != nil {
		return RawDevice{}, fc.defaultErr
	}
	return fc.devices[fc.defaultIdx], nil
}

func (fc *fakeDeviceControl) SetDefaultDevice(name string) (bool, error) {
	fc.setCalls = append(fc.setCalls, name)
	if fc.setErr != nil {
		return false, fc.setErr
	}
	if !fc.setResult {
		return false, nil
	}
	for idx, d := range fc.devices {
		if *d.Name == name {
			fc.defaultIdx = idx
		}
	}
	return true, nil
}

func (fc *fakeDeviceControl) Release() error {
	fc.released = true
	return nil
}

type recordingNotifier struct {
	titles   []string
	messages []string
}

func (rn *recordingNotifier) Notify(title string, message string) {
	rn.titles = append(rn.titles, title)
	rn.messages = append(rn.messages, message)
}

func newTestSwitcher(t *testing.T, config string, fc *fakeDeviceControl) *Switcher {
	t.Helper()

	options := Options{}
	if config != "" {
		options.ConfigPath = writeConfig(t, t.TempDir(), config)
	} else {
		isolateConfigDir(t)
	}

	s, err := NewSwitcher(zaptest.NewLogger(t).Sugar(), options)
	require.NoError(t, err)

	s.connect = func(_ *zap.SugaredLogger, _ string) (DeviceControl, error) {
		return fc, nil
	}

	require.NoError(t, s.Initialize())
	return s
}

func TestSwitcherList(t *testing.T) {
	fc := newFakeDeviceControl("A", "B", "C")
	fc.defaultIdx = 1

	s := newTestSwitcher(t, `exclude_names = ["^C$"]`, fc)

	var out bytes.Buffer
	require.NoError(t, s.List(&out))

	assert.Equal(t, `All devices:
Device A (0, A)
Device B (1, B)
Device C (2, C)

Matching devices:
Device A (0, A)
Device B (1, B)

Default device: Device B (1, B)
`, out.String())
	assert.Empty(t, fc.setCalls)
}

func TestSwitcherNext(t *testing.T) {
	tests := []struct {
		name    string
		current int
		want    string
	}{
		{name: "advances", current: 1, want: "C"},
		{name: "wraps around", current: 2, want: "A"},
		{name: "default not matching", current: 3, want: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newFakeDeviceControl("A", "B", "C", "Z")
			fc.defaultIdx = tt.current

			s := newTestSwitcher(t, `exclude_names = ["Z"]`, fc)

			next, err := s.Next()
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.Name)
			assert.Equal(t, []string{tt.want}, fc.setCalls)
		})
	}
}

func TestSwitcherNextCyclesThroughMatching(t *testing.T) {
	fc := newFakeDeviceControl("A", "hdmi", "B", "C")

	s := newTestSwitcher(t, `exclude_names = ["hdmi"]`, fc)

	var visited []string
	for i := 0; i < 4; i++ {
		next, err := s.Next()
		require.NoError(t, err)
		visited = append(visited, next.Name)
	}

	assert.Equal(t, []string{"B", "C", "A", "B"}, visited)
}

func TestSwitcherNextNoMatch(t *testing.T) {
	fc := newFakeDeviceControl("A", "B")

	s := newTestSwitcher(t, `include_names = ["nothing"]`, fc)

	_, err := s.Next()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrorNoMatch))
	assert.Contains(t, err.Error(), "no matching devices found")
	assert.Empty(t, fc.setCalls)
}

func TestSwitcherNextAPIReturnedFalse(t *testing.T) {
	fc := newFakeDeviceControl("A", "B")
	fc.setResult = false

	s := newTestSwitcher(t, "", fc)

	_, err := s.Next()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrorSetDefault))
	assert.EqualError(t, err, "failed setting default device: API returned false")
}

func TestSwitcherNextSetError(t *testing.T) {
	fc := newFakeDeviceControl("A", "B")
	fc.setErr = errors.New("connection reset")

	s := newTestSwitcher(t, "", fc)

	_, err := s.Next()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrorSetDefault))
	assert.ErrorIs(t, err, fc.setErr)
}

func TestSwitcherListErrors(t *testing.T) {
	listFailure := newFakeDeviceControl("A")
	listFailure.listErr = errors.New("boom")

	defaultFailure := newFakeDeviceControl("A")
	defaultFailure.defaultErr = errors.New("no such entity")

	tests := []struct {
		name string
		fc   *fakeDeviceControl
		kind string
	}{
		{name: "list", fc: listFailure, kind: ErrorDeviceList},
		{name: "default", fc: defaultFailure, kind: ErrorNoDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSwitcher(t, "", tt.fc)

			err := s.List(&bytes.Buffer{})
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind))

			_, err = s.Next()
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind))
			assert.Empty(t, tt.fc.setCalls)
		})
	}
}

func TestSwitcherInvalidPatternNeverConnects(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `include_descriptions = ["(bad"]`)

	s, err := NewSwitcher(zap.NewNop().Sugar(), Options{ConfigPath: path})
	require.NoError(t, err)

	connected := false
	s.connect = func(_ *zap.SugaredLogger, _ string) (DeviceControl, error) {
		connected = true
		return newFakeDeviceControl("A"), nil
	}

	err = s.Initialize()
	require.Error(t, err)

	var patternErr *PatternError
	assert.True(t, errors.As(err, &patternErr))
	assert.False(t, connected)
}

func TestSwitcherConnectError(t *testing.T) {
	isolateConfigDir(t)

	s, err := NewSwitcher(zap.NewNop().Sugar(), Options{})
	require.NoError(t, err)

	s.connect = func(_ *zap.SugaredLogger, _ string) (DeviceControl, error) {
		return nil, errors.New("connection refused")
	}

	err = s.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to sound server")
	assert.NoError(t, s.Release())
}

func TestSwitcherNotifies(t *testing.T) {
	fc := newFakeDeviceControl("A", "B")

	s := newTestSwitcher(t, "", fc)
	notifier := &recordingNotifier{}
	s.notifier = notifier

	_, err := s.Next()
	require.NoError(t, err)

	assert.Equal(t, []string{"Device B"}, notifier.messages)
}

func TestSwitcherRelease(t *testing.T) {
	fc := newFakeDeviceControl("A")

	s := newTestSwitcher(t, "", fc)
	require.NoError(t, s.Release())

	assert.True(t, fc.released)
}

func TestSwitcherNotInitialized(t *testing.T) {
	s, err := NewSwitcher(zap.NewNop().Sugar(), Options{ConfigPath: filepath.Join(t.TempDir(), "x.toml")})
	require.NoError(t, err)

	assert.Error(t, s.List(&bytes.Buffer{}))
}
