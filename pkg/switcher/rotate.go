package switcher

// NextDevice picks the device that should follow current as the default.
//
// Devices are identified by name, since indices may change between listing and commit.
// The device after current's first occurrence is returned, wrapping around at the end;
// if current isn't among filtered, the first filtered device is returned.
func NextDevice(filtered []Device, current Device) (Device, error) {
	if len(filtered) == 0 {
		return Device{}, newSwitchError(ErrorNoMatch, "no matching devices found", nil)
	}

	next := 0
	for idx, d := range filtered {
		if d.Name == current.Name {
			next = (idx + 1) % len(filtered)
			break
		}
	}

	return filtered[next], nil
}
