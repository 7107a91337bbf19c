package switcher

import (
	"fmt"
	"net"

	"github.com/jfreymuth/pulse/proto"
	"go.uber.org/zap"
)

const (
	clientName = "pulse-switcher"

	propDeviceDescription = "device.description"
)

type paDeviceControl struct {
	logger *zap.SugaredLogger

	client *proto.Client
	conn   net.Conn
}

// NewDeviceControl connects to the PulseAudio server at the given address,
// or the default one when server is empty
func NewDeviceControl(logger *zap.SugaredLogger, server string) (DeviceControl, error) {
	logger = logger.Named("device_control")

	client, conn, err := proto.Connect(server)
	if err != nil {
		logger.Warnw("Failed to establish PulseAudio connection", "server", server, "error", err)
		return nil, fmt.Errorf("establish PulseAudio connection: %w", err)
	}

	request := proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString(clientName),
		},
	}
	reply := proto.SetClientNameReply{}

	if err := client.Request(&request, &reply); err != nil {
		logger.Warnw("Failed to set PulseAudio client name", "error", err)
		conn.Close()
		return nil, fmt.Errorf("set client name: %w", err)
	}

	dc := &paDeviceControl{
		logger: logger,
		client: client,
		conn:   conn,
	}

	dc.logger.Debug("Created PA device control instance")

	return dc, nil
}

func (dc *paDeviceControl) ListDevices() ([]RawDevice, error) {
	request := proto.GetSinkInfoList{}
	reply := proto.GetSinkInfoListReply{}

	if err := dc.client.Request(&request, &reply); err != nil {
		dc.logger.Warnw("Failed to get sink list", "error", err)
		return nil, fmt.Errorf("get sink list: %w", err)
	}

	devices := make([]RawDevice, 0, len(reply))
	for _, sink := range reply {
		if sink == nil {
			continue
		}
		devices = append(devices, rawDeviceFromSink(sink))
	}

	dc.logger.Debugw("Listed sinks", "count", len(devices))

	return devices, nil
}

func (dc *paDeviceControl) GetDefaultDevice() (RawDevice, error) {
	request := proto.GetSinkInfo{
		SinkIndex: proto.Undefined,
	}
	reply := proto.GetSinkInfoReply{}

	if err := dc.client.Request(&request, &reply); err != nil {
		dc.logger.Warnw("Failed to get default sink info", "error", err)
		return RawDevice{}, fmt.Errorf("get default sink info: %w", err)
	}

	return rawDeviceFromSink(&reply), nil
}

func (dc *paDeviceControl) SetDefaultDevice(name string) (bool, error) {
	request := proto.SetDefaultSink{
		SinkName: name,
	}

	if err := dc.client.Request(&request, nil); err != nil {
		dc.logger.Warnw("Failed to set default sink", "name", name, "error", err)
		return false, fmt.Errorf("set default sink: %w", err)
	}

	// the ack is the result; PipeWire may apply the change after replying
	serverInfo := proto.GetServerInfoReply{}
	if err := dc.client.Request(&proto.GetServerInfo{}, &serverInfo); err != nil {
		dc.logger.Debugw("Failed to read back server info", "error", err)
	} else if !defaultSinkApplied(name, serverInfo) {
		dc.logger.Infow("Default sink switch still pending",
			"requested", name,
			"current", serverInfo.DefaultSinkName)
	}

	dc.logger.Debugw("Set default sink", "name", name)

	return true, nil
}

// defaultSinkApplied reports whether the server already names requested as its default sink
func defaultSinkApplied(requested string, info proto.GetServerInfoReply) bool {
	return info.DefaultSinkName == requested
}

func (dc *paDeviceControl) Release() error {
	if err := dc.conn.Close(); err != nil {
		dc.logger.Warnw("Failed to close PulseAudio connection", "error", err)
		return fmt.Errorf("close PulseAudio connection: %w", err)
	}

	dc.logger.Debug("Released PA device control instance")

	return nil
}

// rawDeviceFromSink keeps empty names and descriptions absent so they get placeholders
func rawDeviceFromSink(sink *proto.GetSinkInfoReply) RawDevice {
	raw := RawDevice{
		Index: sink.SinkIndex,
	}

	if sink.SinkName != "" {
		name := sink.SinkName
		raw.Name = &name
	}

	if sink.Properties != nil {
		if descProp, ok := sink.Properties[propDeviceDescription]; ok {
			if desc := descProp.String(); desc != "" {
				raw.Description = &desc
			}
		}
	}

	return raw
}
